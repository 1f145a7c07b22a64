// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes Munin's vault tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/arlunn/munin/internal/assistant"
	"github.com/arlunn/munin/internal/models"
	"github.com/arlunn/munin/internal/vault"
)

// Server wraps the MCP server with Munin tools.
type Server struct {
	mcp   *server.MCPServer
	vault *vault.Vault
	svc   *assistant.Service
}

// New creates a new MCP server with all Munin tools registered.
func New(v *vault.Vault, svc *assistant.Service) *Server {
	s := &Server{vault: v, svc: svc}

	s.mcp = server.NewMCPServer(
		"Munin",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_vault",
		mcp.WithDescription("Search every markdown note in the vault for a keyword (case-insensitive)."),
		mcp.WithString("keyword", mcp.Required(), mcp.Description("Keyword to search for")),
	), s.searchVault)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full content of a markdown note. Folder prefixes are resolved fuzzily."),
		mcp.WithString("filename", mcp.Required(), mcp.Description("Note filename, optionally with a folder prefix (e.g. physics/waves.md)")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a new markdown note. Fails when the file already exists."),
		mcp.WithString("filename", mcp.Required(), mcp.Description("Note filename, optionally with a folder prefix")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown content for the note")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("add_task",
		mcp.WithDescription("Append a task to the to-do list at the vault root."),
		mcp.WithString("task", mcp.Required(), mcp.Description("Task text")),
	), s.addTask)

	s.mcp.AddTool(mcp.NewTool("vault_structure",
		mcp.WithDescription("Return the vault's nested folder/file structure as JSON."),
	), s.vaultStructure)

	s.mcp.AddTool(mcp.NewTool("generate_note",
		mcp.WithDescription("Generate a detailed markdown note from source content and save it in the vault, "+
			"linking it to the numerically preceding note and optionally creating a followup stub."),
		mcp.WithString("source", mcp.Required(), mcp.Description("Source content to turn into a note")),
		mcp.WithString("note_title", mcp.Required(), mcp.Description("Title for the note (e.g. 8.2 Selection Sort)")),
		mcp.WithString("location", mcp.Description("Vault folder to save in (fuzzy-matched); empty returns the note without saving")),
		mcp.WithString("followup", mcp.Description("Title of a followup note to stub and link")),
	), s.generateNote)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchVault(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	keyword, err := req.RequireString("keyword")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	matches, err := s.vault.SearchContent(keyword)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(matches) == 0 {
		return mcp.NewToolResultText("no matches found"), nil
	}
	return mcp.NewToolResultText(strings.Join(matches, "\n")), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filename, err := req.RequireString("filename")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, err := s.vault.ResolveFilePath(filename)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", filename)), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", filename)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filename, err := req.RequireString("filename")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	path, resolveErr := s.vault.ResolveFilePath(filename)
	if resolveErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("folder not found for: %s", filename)), nil
	}
	if _, statErr := os.Stat(path); statErr == nil {
		return mcp.NewToolResultError(fmt.Sprintf("note already exists: %s", filename)), nil
	}
	if err := s.vault.WriteAbs(path, []byte(content)); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", s.vault.Rel(path))), nil
}

func (s *Server) addTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	task, err := req.RequireString("task")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	reply := s.svc.Execute(ctx, models.Command{
		Action:     models.ActionAssignment,
		Assignment: task,
	})
	return mcp.NewToolResultText(reply), nil
}

func (s *Server) vaultStructure(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tree, err := s.vault.Structure()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(tree, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) generateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := req.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title, err := req.RequireString("note_title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	location := ""
	if v, lerr := req.RequireString("location"); lerr == nil {
		location = v
	}
	followup := ""
	if v, ferr := req.RequireString("followup"); ferr == nil {
		followup = v
	}
	reply := s.svc.Execute(ctx, models.Command{
		Action:    models.ActionGenerateNote,
		Source:    source,
		NoteTitle: title,
		Location:  location,
		Followup:  followup,
	})
	return mcp.NewToolResultText(reply), nil
}
