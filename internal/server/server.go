package server

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mj1618/nirctl/internal/app"
	"github.com/mj1618/nirctl/internal/groups"
	"github.com/mj1618/nirctl/internal/model"
	"github.com/mj1618/nirctl/internal/platform"
)

// Config holds MCP server configuration.
type Config struct {
	Transport string
	Port      int
	CacheTTL  time.Duration
	Version   string
}

// Server wraps the MCP server with the application and a window snapshot cache.
type Server struct {
	app   *app.App
	cache *platform.SnapshotCache
	log   *slog.Logger
	mcp   *mcpserver.MCPServer
}

// New creates and configures an MCP server with all nirctl tools.
func New(a *app.App, cfg Config, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	s := &Server{
		app:   a,
		cache: platform.NewSnapshotCache(a.Windows, cfg.CacheTTL),
		log:   log,
	}
	s.mcp = mcpserver.NewMCPServer("nirctl", version)
	s.registerTools()
	return s
}

// Serve starts the MCP server with the configured transport.
func (s *Server) Serve(cfg Config) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		s.log.Info("mcp server listening", "port", cfg.Port)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func kindNames() []string {
	var names []string
	for _, k := range model.TargetKinds() {
		names = append(names, k.String())
	}
	return names
}

func (s *Server) registerTools() {
	kinds := kindNames()
	kindHelp := "Target kind: " + strings.Join(kinds, ", ")

	s.mcp.AddTool(
		mcp.NewTool("list_windows",
			mcp.WithDescription("List visible top-level windows with handle, pid, process, class and title"),
			mcp.WithBoolean("apps", mcp.Description("List running applications instead of windows")),
			mcp.WithString("kind", mcp.Description("Filter: "+kindHelp), mcp.Enum(kinds...)),
			mcp.WithString("value", mcp.Description("Filter value for kind")),
			mcp.WithBoolean("recursive", mcp.Description("Folder filter includes subfolders")),
			mcp.WithNumber("pid", mcp.Description("Filter by process ID")),
		),
		s.handleListWindows,
	)

	s.mcp.AddTool(
		mcp.NewTool("freeze",
			mcp.WithDescription("Hide every window matching the target and suspend the owning processes"),
			mcp.WithString("kind", mcp.Description(kindHelp), mcp.Required(), mcp.Enum(kinds...)),
			mcp.WithString("value", mcp.Description("Process name, class, title text, handle or folder path"), mcp.Required()),
			mcp.WithBoolean("recursive", mcp.Description("For folder targets, include subfolders")),
			mcp.WithString("group", mcp.Description("Owning group name to tag the records with")),
		),
		s.handleFreeze,
	)

	s.mcp.AddTool(
		mcp.NewTool("unfreeze",
			mcp.WithDescription("Resume and show a frozen target. Pass kind+value, a record id, or all=true"),
			mcp.WithString("kind", mcp.Description(kindHelp), mcp.Enum(kinds...)),
			mcp.WithString("value", mcp.Description("Target value used at freeze time")),
			mcp.WithBoolean("recursive", mcp.Description("For folder targets, include subfolders")),
			mcp.WithString("group", mcp.Description("Group the records were frozen under")),
			mcp.WithString("id", mcp.Description("Frozen record id from list_frozen")),
			mcp.WithBoolean("all", mcp.Description("Unfreeze every tracked record")),
		),
		s.handleUnfreeze,
	)

	s.mcp.AddTool(
		mcp.NewTool("list_frozen",
			mcp.WithDescription("List the currently frozen records"),
		),
		s.handleListFrozen,
	)

	s.mcp.AddTool(
		mcp.NewTool("list_groups",
			mcp.WithDescription("List app groups and their entries"),
		),
		s.handleListGroups,
	)

	s.mcp.AddTool(
		mcp.NewTool("create_group",
			mcp.WithDescription("Create an empty app group"),
			mcp.WithString("name", mcp.Description("Group name"), mcp.Required()),
		),
		s.handleCreateGroup,
	)

	s.mcp.AddTool(
		mcp.NewTool("delete_group",
			mcp.WithDescription("Delete an app group"),
			mcp.WithString("name", mcp.Description("Group name"), mcp.Required()),
		),
		s.handleDeleteGroup,
	)

	s.mcp.AddTool(
		mcp.NewTool("add_app",
			mcp.WithDescription("Add an app entry to a group"),
			mcp.WithString("group", mcp.Description("Group name"), mcp.Required()),
			mcp.WithString("name", mcp.Description("Display name of the entry"), mcp.Required()),
			mcp.WithString("kind", mcp.Description(kindHelp), mcp.Required(), mcp.Enum(kinds...)),
			mcp.WithString("value", mcp.Description("Target value"), mcp.Required()),
			mcp.WithBoolean("recursive", mcp.Description("For folder targets, include subfolders")),
		),
		s.handleAddApp,
	)

	s.mcp.AddTool(
		mcp.NewTool("remove_app",
			mcp.WithDescription("Remove an app entry from a group by display name"),
			mcp.WithString("group", mcp.Description("Group name"), mcp.Required()),
			mcp.WithString("name", mcp.Description("Display name of the entry"), mcp.Required()),
		),
		s.handleRemoveApp,
	)

	s.mcp.AddTool(
		mcp.NewTool("run_group",
			mcp.WithDescription("Apply an action to every entry of a group: "+strings.Join(groups.KnownActions, ", ")),
			mcp.WithString("name", mcp.Description("Group name"), mcp.Required()),
			mcp.WithString("action", mcp.Description("Action word, e.g. freeze, unfreeze, min, close"), mcp.Required()),
		),
		s.handleRunGroup,
	)

	s.mcp.AddTool(
		mcp.NewTool("exec_command",
			mcp.WithDescription("Run a nircmd command line, e.g. 'setsysvolume 30000' or 'win freeze process notepad.exe'"),
			mcp.WithString("command", mcp.Description("Command line without the nircmd prefix"), mcp.Required()),
			mcp.WithBoolean("wait", mcp.Description("Wait for completion (default true)")),
		),
		s.handleExecCommand,
	)

	s.mcp.AddTool(
		mcp.NewTool("search_commands",
			mcp.WithDescription("Search the nircmd command catalog by name or description"),
			mcp.WithString("query", mcp.Description("Case-insensitive search text"), mcp.Required()),
		),
		s.handleSearchCommands,
	)
}
