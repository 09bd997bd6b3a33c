package internal

import (
	"fmt"
	"os"
	"path/filepath"
)

type ScopeType string

const (
	ScopeGlobal  ScopeType = "global"
	ScopeProject ScopeType = "project"
)

const WorkspaceDir = ".boc"

// Scope is a workspace: Path is the project root and BocPath its .boc
// directory holding config, centroids and the word index.
type Scope struct {
	Type    ScopeType
	Path    string
	BocPath string
}

func (s Scope) VectorPath() string {
	return filepath.Join(s.BocPath, "vectors")
}

func (s Scope) ConfigPath() string {
	return filepath.Join(s.BocPath, "config.yaml")
}

func (s Scope) CentroidsPath() string {
	return filepath.Join(s.BocPath, CentroidsFilename)
}

// Abs resolves a config path relative to the workspace root.
func (s Scope) Abs(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.Path, path)
}

func (s Scope) Initialized() bool {
	info, err := os.Stat(s.BocPath)
	return err == nil && info.IsDir()
}

// InitScope creates the workspace directories and writes cfg.
func InitScope(scope Scope, cfg *Config) error {
	if scope.Initialized() {
		return fmt.Errorf("already initialized at %s", scope.BocPath)
	}
	if err := os.MkdirAll(scope.VectorPath(), 0755); err != nil {
		return fmt.Errorf("create vectors directory: %w", err)
	}
	return SaveConfig(scope, cfg)
}

type ScopeResolver struct {
	homeDir string
}

func NewScopeResolver() *ScopeResolver {
	home, _ := os.UserHomeDir()
	return &ScopeResolver{homeDir: home}
}

func (r *ScopeResolver) Global() Scope {
	return Scope{
		Type:    ScopeGlobal,
		Path:    r.homeDir,
		BocPath: filepath.Join(r.homeDir, WorkspaceDir),
	}
}

func (r *ScopeResolver) Project() (Scope, bool) {
	cwd, err := os.Getwd()
	if err != nil {
		return Scope{}, false
	}
	return r.findProjectScope(cwd)
}

func (r *ScopeResolver) findProjectScope(dir string) (Scope, bool) {
	for {
		bocPath := filepath.Join(dir, WorkspaceDir)
		info, err := os.Stat(bocPath)
		if err == nil && info.IsDir() && bocPath != r.Global().BocPath {
			return Scope{Type: ScopeProject, Path: dir, BocPath: bocPath}, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Scope{}, false
		}
		dir = parent
	}
}

// Resolve picks the explicit scope if given, else the nearest project
// workspace, else the global one.
func (r *ScopeResolver) Resolve(explicit string) Scope {
	if explicit == string(ScopeGlobal) {
		return r.Global()
	}
	if scope, ok := r.Project(); ok {
		return scope
	}
	return r.Global()
}

// Here returns a project scope rooted at the working directory, whether or
// not it exists yet.
func (r *ScopeResolver) Here() (Scope, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Scope{}, fmt.Errorf("get working directory: %w", err)
	}
	return Scope{Type: ScopeProject, Path: cwd, BocPath: filepath.Join(cwd, WorkspaceDir)}, nil
}
