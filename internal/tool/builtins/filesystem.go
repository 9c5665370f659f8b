package builtins

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/louipr/spark/internal/tool"
	"github.com/louipr/spark/internal/types"
	"github.com/louipr/spark/internal/workflow"
)

// Filesystem actions accepted by the filesystem tool.
const (
	FSActionCreateDirectory = "create_directory"
	FSActionWriteFile       = "write_file"
	FSActionReadFile        = "read_file"
	FSActionDelete          = "delete"
)

// FilesystemTool performs file operations scoped to the execution context's
// working directory.
type FilesystemTool struct{}

// NewFilesystemTool creates the builtin filesystem tool.
func NewFilesystemTool() tool.Tool {
	return &FilesystemTool{}
}

func (t *FilesystemTool) Name() string {
	return "filesystem"
}

func (t *FilesystemTool) Description() string {
	return "Create directories, write, read, and delete files under the run's working directory."
}

func (t *FilesystemTool) Tags() []string {
	return []string{"filesystem", "io"}
}

// Validate requires a known action and a relative path. write_file
// additionally requires string content.
func (t *FilesystemTool) Validate(params map[string]any) bool {
	action, _ := params["action"].(string)
	path, _ := params["path"].(string)
	if path == "" {
		return false
	}

	switch action {
	case FSActionWriteFile:
		_, hasContent := params["content"].(string)
		return hasContent
	case FSActionCreateDirectory, FSActionReadFile, FSActionDelete:
		return true
	default:
		return false
	}
}

func (t *FilesystemTool) Execute(ctx context.Context, params map[string]any, ec *workflow.ExecutionContext) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	action := params["action"].(string)
	path, err := t.resolve(ec.WorkingDir(), params["path"].(string))
	if err != nil {
		return nil, err
	}

	switch action {
	case FSActionCreateDirectory:
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, classifyFSError("create directory", path, err)
		}
		return map[string]any{"directory_created": path}, nil

	case FSActionWriteFile:
		content := params["content"].(string)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, classifyFSError("create parent directory", path, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, classifyFSError("write file", path, err)
		}
		return map[string]any{"file_created": path, "bytes": len(content)}, nil

	case FSActionReadFile:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, classifyFSError("read file", path, err)
		}
		return map[string]any{"content": string(data), "path": path}, nil

	case FSActionDelete:
		if err := os.RemoveAll(path); err != nil {
			return nil, classifyFSError("delete", path, err)
		}
		return map[string]any{"deleted": path}, nil

	default:
		return nil, types.NewError(types.TOOL_INVALID_PARAMS, fmt.Sprintf("unknown filesystem action %q", action))
	}
}

// resolve joins path onto the working directory and rejects escapes above it.
func (t *FilesystemTool) resolve(workingDir, path string) (string, error) {
	if workingDir == "" {
		workingDir = "."
	}
	if filepath.IsAbs(path) {
		return "", types.NewError(types.TOOL_INVALID_PARAMS, fmt.Sprintf("absolute paths are not allowed: %s", path))
	}

	joined := filepath.Join(workingDir, path)
	rel, err := filepath.Rel(workingDir, joined)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", types.NewError(types.TOOL_INVALID_PARAMS, fmt.Sprintf("path escapes working directory: %s", path))
	}
	return joined, nil
}

// classifyFSError maps OS errors to typed codes. Permission failures carry
// FS_PERMISSION_DENIED so the failure policy aborts the run; everything else
// is a retryable execution fault.
func classifyFSError(op, path string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return types.WrapError(types.FS_PERMISSION_DENIED, fmt.Sprintf("permission denied: cannot %s %s", op, path), err)
	}
	return types.WrapRetryableError(types.TOOL_EXECUTION_FAILED, fmt.Sprintf("failed to %s %s", op, path), err)
}
