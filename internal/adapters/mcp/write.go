package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"qbmerge/internal/application/commands"
	"qbmerge/internal/domain"
	"qbmerge/internal/ports"
)

// RegisterWriteTools adds the tools that write files to the MCP server
func RegisterWriteTools(s *server.MCPServer, repo ports.BankRepository, history ports.MergeHistory, logger *slog.Logger) {
	s.AddTool(mergeTool(), mergeHandler(repo, history, logger))
}

// --- merge_banks ---

func mergeTool() mcp.Tool {
	return mcp.NewTool("merge_banks",
		mcp.WithDescription("Three-way merge of edited question bank copies into a base. Writes the merged bank and, when sections conflict, a conflict report. The first edited file to change a section wins a conflict."),
		mcp.WithString("base",
			mcp.Description("Path to the original bank. Omit to use the first edited file as the base."),
		),
		mcp.WithArray("edited",
			mcp.Description("Paths to the edited copies, in precedence order"),
			mcp.WithStringItems(),
			mcp.Required(),
		),
		mcp.WithString("out",
			mcp.Description("Path of the merged bank to write"),
			mcp.Required(),
		),
		mcp.WithString("conflicts",
			mcp.Description("Path of the conflict report. Defaults to <out>.conflicts_report.json."),
		),
	)
}

// mergeSummary is the JSON returned by merge_banks
type mergeSummary struct {
	Message       string            `json:"message"`
	RunID         string            `json:"run_id,omitempty"`
	Out           string            `json:"out"`
	ConflictsPath string            `json:"conflicts_path,omitempty"`
	Sections      int               `json:"sections"`
	Updates       int               `json:"updates"`
	Conflicts     []domain.Conflict `json:"conflicts"`
}

func mergeHandler(repo ports.BankRepository, history ports.MergeHistory, logger *slog.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewMergeCommand(repo, commands.MergeOptions{
			BasePath:      req.GetString("base", ""),
			OutPath:       req.GetString("out", ""),
			ConflictsPath: req.GetString("conflicts", ""),
			EditedPaths:   req.GetStringSlice("edited", nil),
		}).WithHistory(history).WithLogger(logger)

		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		summary := mergeSummary{
			Message:   result.Message,
			RunID:     result.RunID,
			Out:       result.OutPath,
			Sections:  result.Sections,
			Updates:   result.Updates,
			Conflicts: domain.NewConflictReport(result.Conflicts).Conflicts,
		}
		if result.ReportWritten {
			summary.ConflictsPath = result.ConflictsPath
		}

		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}
