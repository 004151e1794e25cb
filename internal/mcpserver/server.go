// Package mcpserver exposes a parsed save over the Model Context Protocol.
package mcpserver

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"x4map/internal/api"
)

// NewServer creates an MCP server answering from result
func NewServer(result api.SectorsMap, version string) (*server.MCPServer, error) {
	s := server.NewMCPServer(
		"x4map",
		version,
		server.WithToolCapabilities(true),
	)
	if err := RegisterTools(s, result); err != nil {
		return nil, err
	}
	return s, nil
}

// ServeStdio serves result on stdin/stdout until the client disconnects
func ServeStdio(result api.SectorsMap, version string) error {
	s, err := NewServer(result, version)
	if err != nil {
		return err
	}
	if err := server.ServeStdio(s); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
