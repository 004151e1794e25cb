package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"x4map/internal/api"
	"x4map/internal/lookup"
	"x4map/internal/streaming/tags"
)

// testTables returns a small set of lookup tables shared by the parser tests
func testTables() *lookup.Tables {
	t := lookup.NewTables()
	t.Strings["20"] = map[string]string{
		"1001": "Argon Prime",
		"1002": "The Reach (Frontier)",
		"2001": "Elite Vanguard",
	}
	t.SectorNames["cluster_01_sector001_macro"] = "{20,1001}"
	t.SectorNames["cluster_02_sector001_macro"] = "{20,1002}"
	t.ShipNames["ship_arg_s_fighter_01_a_macro"] = "{20,2001}"
	t.Positions["cluster_01_sector001_macro"] = lookup.Position{X: 0, Y: 0, Z: 3}
	t.Positions["connection_clustergate001"] = lookup.Position{X: 100, Y: 0, Z: 0}
	t.Positions["props_gates_anc_gate_macro"] = lookup.Position{X: 0, Y: 10, Z: 0}
	return t
}

// parseString walks doc through a fresh SaveParser
func parseString(t *testing.T, tables *lookup.Tables, doc string) api.SectorsMap {
	t.Helper()
	p := NewSaveParser(tables)
	w := tags.NewWalker(p)
	_, err := w.Write([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return p.Finish()
}

// universeDoc holds two sectors linked by a gate pair and by a super-highway step
const universeDoc = `<?xml version="1.0" encoding="UTF-8"?>
<savegame>
<universe>
<component class="galaxy" macro="xu_ep2_universe_macro" code="GAL-1">
 <connections>
  <connection connection="cluster_01_connection">
   <component class="cluster" macro="cluster_01_macro" code="CLU-1">
    <connections>
     <connection connection="cluster_01_sector001_connection">
      <component class="sector" macro="cluster_01_sector001_macro" code="SEC-A" known="1">
       <connections>
        <connection connection="zone001_connection">
         <component class="zone" macro="zone001_macro" code="ZON-A">
          <offset><position x="1" y="0" z="0"/></offset>
          <connections>
           <connection connection="stations">
            <component class="station" macro="station_gen_factory_base_01_macro" code="STA-1" owner="player">
             <offset><position x="0" y="2" z="0"/></offset>
            </component>
            <component class="station" macro="station_arg_hq_macro" code="STA-2" owner="argon" factionheadquarters="1"/>
            <component class="station" macro="station_tel_wreck_macro" code="STA-3" owner="teladi" state="wreck"/>
           </connection>
          </connections>
         </component>
        </connection>
        <connection connection="connection_clustergate001" id="[0x1a]">
         <component class="gate" macro="props_gates_anc_gate_macro" code="GAT-A" owner="ownerless">
          <connections>
           <connection connection="destination" id="[0xa1]">
            <connected connection="[0xb1]"/>
           </connection>
          </connections>
         </component>
        </connection>
        <connection connection="highway_connection">
         <component class="highwayentrygate" macro="props_ter_superhighway_entry_macro" code="HWY-A">
          <connections>
           <connection connection="gate" id="[0xe0]">
            <connected connection="[0xe1]"/>
           </connection>
          </connections>
         </component>
        </connection>
        <connection connection="vault_connection">
         <component class="datavault" macro="landmarks_vault_01_macro" code="VLT-1" owner="ownerless">
          <connections>
           <connection connection="loot">
            <component class="collectableblueprints" macro="collectable_macro" code="LOT-1"/>
           </connection>
          </connections>
         </component>
         <component class="datavault" macro="landmarks_vault_02_macro" code="VLT-2" owner="ownerless"/>
        </connection>
        <connection connection="ships">
         <component class="ship_s" macro="ship_arg_s_fighter_01_a_macro" code="SHP-1" owner="ownerless"/>
         <component class="ship_s" macro="ship_arg_s_fighter_01_a_macro" code="SHP-2" owner="argon"/>
        </connection>
       </connections>
       <resourceareas>
        <area x="1" y="-2" z="3">
         <wares>
          <ware ware="helium"><recharge max="100" time="3600"/></ware>
          <ware ware="ore"><recharge max="50" current="20" time="600"/></ware>
         </wares>
         <yields>
          <ware ware="helium"><yield name="medium"/></ware>
         </yields>
        </area>
        <area x="4" y="5" z="6"></area>
       </resourceareas>
      </component>
     </connection>
     <connection connection="cluster_02_sector001_connection">
      <component class="sector" macro="cluster_02_sector001_macro" code="SEC-B" knownto="player">
       <connections>
        <connection connection="connection_clustergate002" id="[0x2b]">
         <component class="gate" macro="props_gates_anc_gate_macro" code="GAT-B" owner="ownerless">
          <object active="0"/>
          <connections>
           <connection connection="destination" id="[0xb1]">
            <connected connection="[0xa1]"/>
           </connection>
          </connections>
         </component>
        </connection>
        <connection connection="highway_connection">
         <component class="highwayexitgate" macro="props_ter_superhighway_exit_macro" code="HWY-B">
          <connections>
           <connection connection="gate" id="[0xf0]">
            <connected connection="[0xf1]"/>
           </connection>
          </connections>
         </component>
        </connection>
        <connection connection="orphan_gate">
         <component class="highwayexitgate" macro="props_ter_superhighway_exit_macro" code="HWY-X">
          <connections>
           <connection connection="gate" id="[0xd0]">
            <connected connection="[0xd1]"/>
           </connection>
          </connections>
         </component>
        </connection>
       </connections>
      </component>
     </connection>
     <connection connection="highways">
      <component class="highway" macro="superhighway_01_macro" code="HWY-STEP">
       <connections>
        <connection connection="entrygate" id="[0xe1]"/>
        <connection connection="exitgate" id="[0xf1]"/>
       </connections>
      </component>
     </connection>
    </connections>
   </component>
  </connection>
 </connections>
</component>
</universe>
</savegame>`
