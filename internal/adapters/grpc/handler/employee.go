package handler

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ogurasousui/payslip-service/internal/core/employee"
)

// ListEmployees は社員一覧を氏名順に返します。
func (h *PayslipGrpcHandler) ListEmployees(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	employees, err := h.employees.ListEmployees(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	items := make([]any, 0, len(employees))
	for _, e := range employees {
		items = append(items, employeeValue(e))
	}
	return newResponse(map[string]any{"employees": items})
}

// CreateEmployee は社員を作成します。
func (h *PayslipGrpcHandler) CreateEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if strings.TrimSpace(stringField(req, "full_name")) == "" {
		return nil, status.Error(codes.InvalidArgument, "full_name is required")
	}

	created, err := h.employees.CreateEmployee(ctx, employee.CreateEmployeeInput{
		FullName:  stringField(req, "full_name"),
		Position:  stringField(req, "position"),
		Email:     stringField(req, "email"),
		Warehouse: stringField(req, "warehouse"),
		BaseRate:  stringField(req, "base_rate"),
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return newResponse(map[string]any{"employee": employeeValue(created)})
}

// UpdateEmployee は指定されたフィールドのみ更新します。
func (h *PayslipGrpcHandler) UpdateEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requiredID(req)
	if err != nil {
		return nil, err
	}

	updated, err := h.employees.UpdateEmployee(ctx, employee.UpdateEmployeeInput{
		ID:        id,
		FullName:  optionalStringField(req, "full_name"),
		Position:  optionalStringField(req, "position"),
		Email:     optionalStringField(req, "email"),
		Warehouse: optionalStringField(req, "warehouse"),
		BaseRate:  optionalStringField(req, "base_rate"),
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return newResponse(map[string]any{"employee": employeeValue(updated)})
}

// DeleteEmployee は社員を削除します。給与履歴は残ります。
func (h *PayslipGrpcHandler) DeleteEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requiredID(req)
	if err != nil {
		return nil, err
	}

	if err := h.employees.DeleteEmployee(ctx, employee.DeleteEmployeeInput{ID: id}); err != nil {
		return nil, toStatusError(err)
	}
	return newResponse(map[string]any{})
}

// RefreshEmployees は社員ディレクトリを読み直し、表示キーの一覧を返します。
func (h *PayslipGrpcHandler) RefreshEmployees(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	snap, err := h.employees.RefreshDirectory(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	names := snap.Names()
	items := make([]any, 0, len(names))
	for _, n := range names {
		items = append(items, n)
	}
	return newResponse(map[string]any{"names": items, "count": snap.Len()})
}
