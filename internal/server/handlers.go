package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mj1618/nirctl/internal/app"
	"github.com/mj1618/nirctl/internal/groups"
	"github.com/mj1618/nirctl/internal/model"
	"github.com/mj1618/nirctl/internal/platform"
	"gopkg.in/yaml.v3"
)

// toText serializes a tool result to YAML for the MCP response.
func toText(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

func textResult(v interface{}) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(toText(v)), nil
}

func errorResult(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

// mutated drops cached window snapshots after a tool changed window state.
func (s *Server) mutated() {
	s.cache.Invalidate()
}

type messageResult struct {
	OK      bool   `yaml:"ok"`
	Message string `yaml:"message"`
}

func (s *Server) handleListWindows(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	opts := platform.ListOptions{
		PID:  app.IntParam(params, "pid", 0),
		Apps: app.BoolParam(params, "apps", false),
	}
	if app.StringParam(params, "kind", "") != "" {
		spec, err := app.TargetParam(params)
		if err != nil {
			return errorResult(err)
		}
		opts.Target = &spec
	}

	windows, err := s.cache.Enumerate(ctx)
	if err != nil {
		return errorResult(err)
	}
	windows = opts.Filter(windows)
	if opts.Apps {
		return textResult(model.SummarizeApps(windows))
	}
	return textResult(windows)
}

func (s *Server) handleFreeze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	spec, err := app.TargetParam(params)
	if err != nil {
		return errorResult(err)
	}
	out, err := s.app.Freeze(ctx, spec, app.StringParam(params, "group", ""))
	s.mutated()
	if err != nil {
		return errorResult(err)
	}
	if !out.OK() {
		return mcp.NewToolResultError(toText(out)), nil
	}
	return textResult(out)
}

func (s *Server) handleUnfreeze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.app.RunStep(ctx, "unfreeze", request.GetArguments())
	s.mutated()
	if err != nil {
		return errorResult(err)
	}
	if !res.OK {
		return mcp.NewToolResultError(toText(res)), nil
	}
	return textResult(res)
}

func (s *Server) handleListFrozen(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recs := s.app.Frozen()
	if recs == nil {
		recs = []model.FrozenRecord{}
	}
	return textResult(recs)
}

func (s *Server) handleListGroups(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(s.app.Groups.Groups())
}

func (s *Server) handleCreateGroup(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := app.StringParam(request.GetArguments(), "name", "")
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}
	if err := groups.ValidateGroupName(name); err != nil {
		return errorResult(err)
	}
	if !s.app.Groups.CreateGroup(name) {
		return mcp.NewToolResultError("Group already exists: " + name), nil
	}
	return textResult(messageResult{OK: true, Message: "Created group: " + name})
}

func (s *Server) handleDeleteGroup(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := app.StringParam(request.GetArguments(), "name", "")
	if !s.app.Groups.DeleteGroup(name) {
		return mcp.NewToolResultError("Group not found: " + name), nil
	}
	return textResult(messageResult{OK: true, Message: "Deleted group: " + name})
}

func (s *Server) handleAddApp(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	group := app.StringParam(params, "group", "")
	name := app.StringParam(params, "name", "")
	if group == "" || name == "" {
		return mcp.NewToolResultError("group and name are required"), nil
	}
	spec, err := app.TargetParam(params)
	if err != nil {
		return errorResult(err)
	}
	entry := model.AppEntry{Name: name, Target: spec}
	if err := groups.ValidateEntry(entry); err != nil {
		return errorResult(err)
	}
	if !s.app.Groups.AddApp(group, entry) {
		return mcp.NewToolResultError("Group not found: " + group), nil
	}
	return textResult(messageResult{OK: true, Message: fmt.Sprintf("Added %s to %s", name, group)})
}

func (s *Server) handleRemoveApp(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	group := app.StringParam(params, "group", "")
	name := app.StringParam(params, "name", "")
	if !s.app.Groups.RemoveApp(group, name) {
		return mcp.NewToolResultError("Group or app not found"), nil
	}
	return textResult(messageResult{OK: true, Message: fmt.Sprintf("Removed %s from %s", name, group)})
}

func (s *Server) handleRunGroup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	res, err := s.app.RunGroup(ctx, app.StringParam(params, "name", ""), app.StringParam(params, "action", ""))
	s.mutated()
	if err != nil {
		return errorResult(err)
	}
	return textResult(res)
}

func (s *Server) handleExecCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	line := app.StringParam(params, "command", "")
	if line == "" {
		return mcp.NewToolResultError("command is required"), nil
	}
	res, err := s.app.Dispatch(ctx, line, app.BoolParam(params, "wait", true))
	s.mutated()
	if err != nil {
		return errorResult(err)
	}
	if !res.Success {
		return mcp.NewToolResultError(toText(res)), nil
	}
	return textResult(res)
}

func (s *Server) handleSearchCommands(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := app.StringParam(request.GetArguments(), "query", "")
	return textResult(s.app.Catalog.Search(query))
}
