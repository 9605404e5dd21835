package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ogurasousui/payslip-service/internal/adapters/grpc/payslipv1"
	"github.com/ogurasousui/payslip-service/internal/core/employee"
	"github.com/ogurasousui/payslip-service/internal/core/payroll"
)

var _ payslipv1.PayslipServiceServer = (*PayslipGrpcHandler)(nil)

// PayslipGrpcHandler は PayslipService の gRPC 実装です。
type PayslipGrpcHandler struct {
	payroll   payroll.UseCase
	employees employee.UseCase
}

// NewPayslipGrpcHandler は PayslipGrpcHandler を生成します。
func NewPayslipGrpcHandler(payrollSvc payroll.UseCase, employeeSvc employee.UseCase) *PayslipGrpcHandler {
	return &PayslipGrpcHandler{payroll: payrollSvc, employees: employeeSvc}
}

// Compute は 6 つの金額から合計を返します。
func (h *PayslipGrpcHandler) Compute(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	calc, err := h.payroll.Compute(ctx, toRawAmounts(req))
	if err != nil {
		return nil, toStatusError(err)
	}

	return newResponse(map[string]any{
		"total":       calc.Total.String(),
		"total_label": payroll.FormatAmount(calc.Total),
	})
}

// Preview は帳票を生成してローカルで開きます。
func (h *PayslipGrpcHandler) Preview(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	res, err := h.payroll.RenderAndView(ctx, toCalculationInput(req))
	if err != nil {
		return nil, toStatusError(err)
	}
	return actionResponse(res)
}

// Archive は帳票を生成して給与履歴に保存します。
func (h *PayslipGrpcHandler) Archive(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	res, err := h.payroll.RenderAndArchive(ctx, toCalculationInput(req))
	if err != nil {
		return nil, toStatusError(err)
	}
	return actionResponse(res)
}

// Send は帳票を生成して社員へメール送信します。
func (h *PayslipGrpcHandler) Send(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	res, err := h.payroll.RenderAndSend(ctx, toCalculationInput(req))
	if err != nil {
		return nil, toStatusError(err)
	}
	return actionResponse(res)
}

// ListArchive は給与履歴を計算日の新しい順に返します。
func (h *PayslipGrpcHandler) ListArchive(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	records, err := h.payroll.ListArchive(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	items := make([]any, 0, len(records))
	for _, r := range records {
		items = append(items, recordValue(r))
	}
	return newResponse(map[string]any{"records": items})
}

// GetArchived は給与履歴を 1 件返します。
func (h *PayslipGrpcHandler) GetArchived(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requiredID(req)
	if err != nil {
		return nil, err
	}

	record, err := h.payroll.GetArchived(ctx, id)
	if err != nil {
		return nil, toStatusError(err)
	}
	return newResponse(map[string]any{"record": recordValue(record)})
}

// ViewArchived は保存済みの帳票ファイルを開きます。
func (h *PayslipGrpcHandler) ViewArchived(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requiredID(req)
	if err != nil {
		return nil, err
	}

	record, err := h.payroll.ViewArchived(ctx, id)
	if err != nil {
		return nil, toStatusError(err)
	}
	return newResponse(map[string]any{"record": recordValue(record)})
}

// DeleteArchived は給与履歴を削除します。
func (h *PayslipGrpcHandler) DeleteArchived(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requiredID(req)
	if err != nil {
		return nil, err
	}

	if err := h.payroll.DeleteArchived(ctx, id); err != nil {
		return nil, toStatusError(err)
	}
	return newResponse(map[string]any{})
}

func actionResponse(res *payroll.ActionResult) (*structpb.Struct, error) {
	fields := map[string]any{
		"record":   recordValue(res.Record),
		"document": artifactValue(res.Artifact),
	}
	if res.Recipient != "" {
		fields["recipient"] = res.Recipient
	}
	return newResponse(fields)
}
