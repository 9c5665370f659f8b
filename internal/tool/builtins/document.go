package builtins

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/louipr/spark/internal/tool"
	"github.com/louipr/spark/internal/types"
	"github.com/louipr/spark/internal/workflow"
)

// Document types the document tool knows how to render.
const (
	DocTypePRD    = "prd"
	DocTypeReadme = "readme"
	DocTypeNotes  = "notes"
)

// DocumentTool renders a markdown document (PRD, README, or free-form notes)
// from a title and section map. The rendered text is returned as the step
// output; writing it to disk is a separate filesystem step so ordering stays
// explicit in the plan.
type DocumentTool struct{}

// NewDocumentTool creates the builtin document-generation tool.
func NewDocumentTool() tool.Tool {
	return &DocumentTool{}
}

func (t *DocumentTool) Name() string {
	return "document"
}

func (t *DocumentTool) Description() string {
	return "Generate a markdown document (PRD, README, or notes) from a title and sections."
}

func (t *DocumentTool) Tags() []string {
	return []string{"document", "generate"}
}

// Validate requires a non-empty title; type defaults to notes.
func (t *DocumentTool) Validate(params map[string]any) bool {
	title, _ := params["title"].(string)
	if strings.TrimSpace(title) == "" {
		return false
	}
	if docType, ok := params["type"].(string); ok && docType != "" {
		switch docType {
		case DocTypePRD, DocTypeReadme, DocTypeNotes:
		default:
			return false
		}
	}
	return true
}

func (t *DocumentTool) Execute(ctx context.Context, params map[string]any, _ *workflow.ExecutionContext) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	title := params["title"].(string)
	docType, _ := params["type"].(string)
	if docType == "" {
		docType = DocTypeNotes
	}

	content, err := render(docType, title, params)
	if err != nil {
		return nil, err
	}

	output := map[string]any{
		"document": content,
		"title":    title,
		"type":     docType,
		"artifact": fmt.Sprintf("%s: %s", strings.ToUpper(docType), title),
	}
	if docType == DocTypePRD {
		output["prd"] = title
	}
	return output, nil
}

func render(docType, title string, params map[string]any) (string, error) {
	var sb strings.Builder
	sb.WriteString("# " + title + "\n\n")
	sb.WriteString(fmt.Sprintf("_Generated %s_\n\n", time.Now().Format("2006-01-02")))

	switch docType {
	case DocTypePRD:
		sb.WriteString("## Overview\n\n")
		writeSection(&sb, params, "overview")
		sb.WriteString("## Requirements\n\n")
		writeList(&sb, params, "requirements")
		sb.WriteString("## Acceptance Criteria\n\n")
		writeList(&sb, params, "acceptance_criteria")

	case DocTypeReadme:
		writeSection(&sb, params, "description")
		sb.WriteString("## Usage\n\n")
		writeSection(&sb, params, "usage")

	case DocTypeNotes:
		writeSection(&sb, params, "content")

	default:
		return "", types.NewError(types.TOOL_INVALID_PARAMS, fmt.Sprintf("unknown document type %q", docType))
	}

	return sb.String(), nil
}

func writeSection(sb *strings.Builder, params map[string]any, key string) {
	if text, ok := params[key].(string); ok && text != "" {
		sb.WriteString(text + "\n\n")
		return
	}
	sb.WriteString("_To be filled in._\n\n")
}

func writeList(sb *strings.Builder, params map[string]any, key string) {
	items, ok := params[key].([]any)
	if !ok || len(items) == 0 {
		sb.WriteString("_To be filled in._\n\n")
		return
	}
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("- %v\n", item))
	}
	sb.WriteString("\n")
}
