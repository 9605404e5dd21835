package employee

import "context"

// Repository は社員永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	Update(ctx context.Context, employee *Employee) (*Employee, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Employee, error)
	// List は氏名の昇順で全社員を返します。
	List(ctx context.Context) ([]*Employee, error)
}
