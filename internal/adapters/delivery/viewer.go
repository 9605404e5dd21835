package delivery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/pkg/browser"

	"github.com/ogurasousui/payslip-service/internal/core/payroll"
)

// Viewer は帳票ファイルを OS の既定アプリケーションで開きます。
type Viewer struct {
	open func(path string) error
}

// NewViewer は pkg/browser を使う Viewer を生成します。
func NewViewer() *Viewer {
	return &Viewer{open: browser.OpenFile}
}

// View はファイルの存在を確認してから開きます。存在しない場合は NotFound を返します。
func (v *Viewer) View(_ context.Context, ref string) error {
	const op = "view"

	ref = strings.TrimSpace(ref)
	if ref == "" {
		return payroll.NotFound(op, payroll.ErrArtifactNotFound)
	}

	info, err := os.Stat(ref)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return payroll.NotFound(op, fmt.Errorf("%w: %s", payroll.ErrArtifactNotFound, ref))
		}
		return payroll.Delivery(op, err)
	}
	if info.IsDir() {
		return payroll.NotFound(op, fmt.Errorf("%w: %s is a directory", payroll.ErrArtifactNotFound, ref))
	}

	if err := v.open(ref); err != nil {
		return payroll.Delivery(op, fmt.Errorf("open %s: %w", ref, err))
	}
	return nil
}
