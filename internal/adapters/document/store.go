package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ogurasousui/payslip-service/internal/core/payroll"
)

// LocalStore は生成済み帳票をローカルディレクトリに保存します。
type LocalStore struct {
	dir string
}

// NewLocalStore は LocalStore を生成します。ディレクトリは初回保存時に作成します。
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

// Save は帳票を書き込み、絶対パスを document_ref として返します。
// 同名ファイルは上書きします。
func (s *LocalStore) Save(_ context.Context, artifact *payroll.DocumentArtifact) (string, error) {
	if artifact == nil || artifact.Name == "" {
		return "", fmt.Errorf("document: artifact name is required")
	}
	if filepath.Base(artifact.Name) != artifact.Name {
		return "", fmt.Errorf("document: artifact name %q must be a single path element", artifact.Name)
	}

	dir, err := filepath.Abs(s.dir)
	if err != nil {
		return "", fmt.Errorf("document: resolve output dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("document: create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".payslip-*")
	if err != nil {
		return "", fmt.Errorf("document: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(artifact.Content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("document: write %s: %w", artifact.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("document: close %s: %w", artifact.Name, err)
	}

	path := filepath.Join(dir, artifact.Name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("document: rename %s: %w", artifact.Name, err)
	}
	return path, nil
}
