package payroll

import (
	"context"
	"time"

	"github.com/ogurasousui/payslip-service/internal/core/employee"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// ArchiveRepository は給与履歴の追記型ストアです。更新操作は持ちません。
type ArchiveRepository interface {
	Append(ctx context.Context, record *SalaryRecord) (string, error)
	List(ctx context.Context) ([]*SalaryRecord, error)
	Get(ctx context.Context, id string) (*SalaryRecord, error)
	Delete(ctx context.Context, id string) error
}

// Directory は社員ディレクトリのスナップショットを提供します。
type Directory interface {
	Load(ctx context.Context) (*employee.Snapshot, error)
}

// Renderer は SalaryRecord から帳票を生成します。
type Renderer interface {
	Render(record *SalaryRecord) (*DocumentArtifact, error)
}

// ArtifactStore は生成済み帳票を保存し、参照文字列 (document_ref) を返します。
type ArtifactStore interface {
	Save(ctx context.Context, artifact *DocumentArtifact) (string, error)
}

// Viewer はローカルの閲覧機能へ帳票を渡すシンクです。
type Viewer interface {
	View(ctx context.Context, ref string) error
}

// Mailer は帳票を添付したメールを送信するシンクです。
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}
