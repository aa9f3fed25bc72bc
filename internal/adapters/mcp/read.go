package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"qbmerge/internal/application/commands"
	"qbmerge/internal/domain"
	"qbmerge/internal/ports"
)

// RegisterReadTools adds all read-only tools to the MCP server. history may
// be nil when merge history is disabled.
func RegisterReadTools(s *server.MCPServer, repo ports.BankRepository, history ports.MergeHistory) {
	s.AddTool(sectionIDTool(), sectionIDHandler())
	s.AddTool(listSectionsTool(), listSectionsHandler(repo))
	s.AddTool(validateTool(), validateHandler(repo))
	s.AddTool(historyTool(), historyHandler(history))
}

// --- section_id ---

func sectionIDTool() mcp.Tool {
	return mcp.NewTool("section_id",
		mcp.WithDescription("Derive the stable section identifier (sec_...) for an English/Punjabi section title. Whitespace and case differences do not change the id."),
		mcp.WithString("en",
			mcp.Description("English title"),
		),
		mcp.WithString("pa",
			mcp.Description("Punjabi title"),
		),
	)
}

func sectionIDHandler() server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewSectionIDCommand(req.GetString("en", ""), req.GetString("pa", ""))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- list_sections ---

func listSectionsTool() mcp.Tool {
	return mcp.NewTool("list_sections",
		mcp.WithDescription("List the sections of a question bank with their ids, titles and question counts. Sections sharing an id are marked as duplicates."),
		mcp.WithString("path",
			mcp.Description("Path to the question bank JSON file"),
			mcp.Required(),
		),
	)
}

func listSectionsHandler(repo ports.BankRepository) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewListSectionsCommand(repo, req.GetString("path", ""))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		if len(result.Sections) == 0 {
			return mcp.NewToolResultText("No sections."), nil
		}

		var sb strings.Builder
		for _, s := range result.Sections {
			sb.WriteString(formatSection(s))
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%d section(s), %d update(s)\n", len(result.Sections), result.Updates)
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- validate_bank ---

func validateTool() mcp.Tool {
	return mcp.NewTool("validate_bank",
		mcp.WithDescription("Check that question bank files can be merged: each must be a JSON object with a sections array whose entries have a questions array."),
		mcp.WithArray("paths",
			mcp.Description("Paths of the files to check"),
			mcp.WithStringItems(),
			mcp.Required(),
		),
	)
}

func validateHandler(repo ports.BankRepository) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewValidateCommand(repo, req.GetStringSlice("paths", nil))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		for _, f := range result.Files {
			sb.WriteString(formatFileCheck(f))
			sb.WriteByte('\n')
		}
		sb.WriteString(result.Message)

		if result.Invalid > 0 {
			return mcp.NewToolResultError(sb.String()), nil
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- history ---

func historyTool() mcp.Tool {
	return mcp.NewTool("history",
		mcp.WithDescription("Show past merges. Without run_id lists recent runs; with run_id shows that run's conflicts."),
		mcp.WithString("run_id",
			mcp.Description("Run id or unique prefix"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of runs to list (default 20)"),
		),
	)
}

func historyHandler(history ports.MergeHistory) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if runID := req.GetString("run_id", ""); runID != "" {
			run, err := commands.NewShowRunCommand(history, runID).Execute(ctx)
			if err != nil {
				return toolError(err)
			}
			return mcp.NewToolResultText(formatRunDetail(run)), nil
		}

		runs, err := commands.NewListRunsCommand(history, req.GetInt("limit", 0)).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(runs, formatRun)
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatSection(s commands.SectionInfo) string {
	line := fmt.Sprintf("%3d  %s  %s  (%d questions)", s.Index, s.ID, s.Title, s.Questions)
	if s.Duplicate {
		line += "  [duplicate]"
	}
	return line
}

func formatFileCheck(f commands.FileCheck) string {
	if !f.OK() {
		return fmt.Sprintf("FAIL  %s  %v", f.Path, f.Err)
	}
	return fmt.Sprintf("OK    %s  %d sections, %d questions, %d updates", f.Path, f.Sections, f.Questions, f.Updates)
}

func formatRun(r domain.MergeRun) string {
	status := "clean"
	if !r.Clean() {
		status = fmt.Sprintf("%d conflict(s)", len(r.Conflicts))
	}
	return fmt.Sprintf("%s  %s  %s  <- %s  %s",
		shortID(r.ID), humanize.Time(r.At), r.OutPath, strings.Join(r.Sources, ", "), status)
}

func formatRunDetail(r *domain.MergeRun) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "run %s at %s\n", r.ID, r.At.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "base: %s\nout: %s\nsources: %s\n", r.BasePath, r.OutPath, strings.Join(r.Sources, ", "))
	fmt.Fprintf(&sb, "%d section(s), %d update(s)\n", r.Sections, r.Updates)
	if r.Clean() {
		sb.WriteString("no conflicts\n")
		return sb.String()
	}
	for _, c := range r.Conflicts {
		sb.WriteString(formatConflict(c))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func formatConflict(c domain.Conflict) string {
	return fmt.Sprintf("%s  %s  kept %s, discarded %s", c.SectionID, c.SectionTitle, c.FirstSource, c.SecondSource)
}

// shortID trims a run id to the prefix accepted by run_id
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
