package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ogurasousui/payslip-service/internal/core/employee"
	"github.com/ogurasousui/payslip-service/internal/core/payroll"
)

func stringField(req *structpb.Struct, key string) string {
	v, ok := req.GetFields()[key]
	if !ok {
		return ""
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return kind.StringValue
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(kind.NumberValue, 'f', -1, 64)
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(kind.BoolValue)
	case *structpb.Value_NullValue, nil:
		return ""
	default:
		// 構造体やリストは数値として解釈できない文字列のまま渡します。
		return fmt.Sprint(v.AsInterface())
	}
}

func optionalStringField(req *structpb.Struct, key string) *string {
	v, ok := req.GetFields()[key]
	if !ok {
		return nil
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return nil
	}
	s := stringField(req, key)
	return &s
}

func requiredID(req *structpb.Struct) (string, error) {
	id := strings.TrimSpace(stringField(req, "id"))
	if id == "" {
		return "", status.Error(codes.InvalidArgument, "id is required")
	}
	return id, nil
}

func toRawAmounts(req *structpb.Struct) payroll.RawAmounts {
	return payroll.RawAmounts{
		BaseSalary:      stringField(req, payroll.FieldBaseSalary),
		FixedBonus:      stringField(req, payroll.FieldFixedBonus),
		FeoktistovBonus: stringField(req, payroll.FieldFeoktistovBonus),
		Overtime:        stringField(req, payroll.FieldOvertime),
		DeductionDefect: stringField(req, payroll.FieldDeductionDefect),
		DeductionAbsent: stringField(req, payroll.FieldDeductionAbsent),
	}
}

func toCalculationInput(req *structpb.Struct) payroll.CalculationInput {
	return payroll.CalculationInput{
		EmployeeName: stringField(req, "employee_name"),
		Amounts:      toRawAmounts(req),
		CalcDate:     stringField(req, "calc_date"),
	}
}

func recordValue(r *payroll.SalaryRecord) map[string]any {
	a := r.Amounts
	out := map[string]any{
		"id":               r.ID,
		"employee_id":      r.EmployeeID,
		"fio":              r.FIO,
		"position":         r.Position,
		"warehouse":        r.Warehouse,
		"base_salary":      a.BaseSalary.String(),
		"fixed_bonus":      a.FixedBonus.String(),
		"feoktistov_bonus": a.FeoktistovBonus.String(),
		"overtime":         a.Overtime.String(),
		"deduction_defect": a.DeductionDefect.String(),
		"deduction_absent": a.DeductionAbsent.String(),
		"total":            r.Total.String(),
		"total_label":      payroll.FormatAmount(r.Total),
		"calc_date":        r.CalcDateString(),
		"document_ref":     r.DocumentRef,
	}
	if !r.CreatedAt.IsZero() {
		out["created_at"] = r.CreatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func employeeValue(e *employee.Employee) map[string]any {
	return map[string]any{
		"id":         e.ID,
		"full_name":  e.FullName,
		"position":   e.Position,
		"email":      e.Email,
		"warehouse":  e.Warehouse,
		"base_rate":  e.BaseRate.String(),
		"created_at": e.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at": e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func artifactValue(a *payroll.DocumentArtifact) map[string]any {
	if a == nil {
		return map[string]any{}
	}
	return map[string]any{
		"name":         a.Name,
		"content_type": a.ContentType,
		"size":         len(a.Content),
	}
}

func newResponse(fields map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	return out, nil
}
