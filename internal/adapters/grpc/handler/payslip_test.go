package handler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ogurasousui/payslip-service/internal/core/employee"
	"github.com/ogurasousui/payslip-service/internal/core/payroll"
)

type stubPayrollUseCase struct {
	computeInput payroll.RawAmounts
	computeOut   *payroll.Calculation
	computeErr   error

	actionInput payroll.CalculationInput
	actionOut   *payroll.ActionResult
	actionErr   error
	lastAction  string

	listOut []*payroll.SalaryRecord
	listErr error

	getID  string
	getOut *payroll.SalaryRecord
	getErr error

	deleteID  string
	deleteErr error
}

func (s *stubPayrollUseCase) Compute(_ context.Context, raw payroll.RawAmounts) (*payroll.Calculation, error) {
	s.computeInput = raw
	return s.computeOut, s.computeErr
}

func (s *stubPayrollUseCase) action(name string, in payroll.CalculationInput) (*payroll.ActionResult, error) {
	s.lastAction = name
	s.actionInput = in
	return s.actionOut, s.actionErr
}

func (s *stubPayrollUseCase) RenderAndArchive(_ context.Context, in payroll.CalculationInput) (*payroll.ActionResult, error) {
	return s.action(payroll.OpArchive, in)
}

func (s *stubPayrollUseCase) RenderAndView(_ context.Context, in payroll.CalculationInput) (*payroll.ActionResult, error) {
	return s.action(payroll.OpPreview, in)
}

func (s *stubPayrollUseCase) RenderAndSend(_ context.Context, in payroll.CalculationInput) (*payroll.ActionResult, error) {
	return s.action(payroll.OpSend, in)
}

func (s *stubPayrollUseCase) ListArchive(context.Context) ([]*payroll.SalaryRecord, error) {
	return s.listOut, s.listErr
}

func (s *stubPayrollUseCase) GetArchived(_ context.Context, id string) (*payroll.SalaryRecord, error) {
	s.getID = id
	return s.getOut, s.getErr
}

func (s *stubPayrollUseCase) ViewArchived(_ context.Context, id string) (*payroll.SalaryRecord, error) {
	s.getID = id
	return s.getOut, s.getErr
}

func (s *stubPayrollUseCase) DeleteArchived(_ context.Context, id string) error {
	s.deleteID = id
	return s.deleteErr
}

type stubEmployeeUseCase struct {
	createInput employee.CreateEmployeeInput
	updateInput employee.UpdateEmployeeInput
	deleteInput employee.DeleteEmployeeInput
	out         *employee.Employee
	listOut     []*employee.Employee
	err         error
}

func (s *stubEmployeeUseCase) CreateEmployee(_ context.Context, in employee.CreateEmployeeInput) (*employee.Employee, error) {
	s.createInput = in
	return s.out, s.err
}

func (s *stubEmployeeUseCase) GetEmployee(_ context.Context, _ employee.GetEmployeeInput) (*employee.Employee, error) {
	return s.out, s.err
}

func (s *stubEmployeeUseCase) ListEmployees(context.Context) ([]*employee.Employee, error) {
	return s.listOut, s.err
}

func (s *stubEmployeeUseCase) UpdateEmployee(_ context.Context, in employee.UpdateEmployeeInput) (*employee.Employee, error) {
	s.updateInput = in
	return s.out, s.err
}

func (s *stubEmployeeUseCase) DeleteEmployee(_ context.Context, in employee.DeleteEmployeeInput) error {
	s.deleteInput = in
	return s.err
}

func (s *stubEmployeeUseCase) RefreshDirectory(context.Context) (*employee.Snapshot, error) {
	return nil, s.err
}

func mustStruct(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()

	s, err := structpb.NewStruct(fields)
	if err != nil {
		t.Fatalf("structpb.NewStruct returned error: %v", err)
	}
	return s
}

func sampleRecord() *payroll.SalaryRecord {
	return &payroll.SalaryRecord{
		ID:          "rec-1",
		EmployeeID:  "emp-1",
		FIO:         "Иванов Иван",
		Position:    "Кладовщик",
		Warehouse:   "Северный",
		Amounts:     payroll.Amounts{BaseSalary: decimal.RequireFromString("50000")},
		Total:       decimal.RequireFromString("57200"),
		CalcDate:    time.Date(2026, time.October, 31, 0, 0, 0, 0, time.UTC),
		DocumentRef: "/var/payslips/a.pdf",
	}
}

func TestPayslipGrpcHandler_Compute(t *testing.T) {
	t.Parallel()

	stub := &stubPayrollUseCase{computeOut: &payroll.Calculation{Total: decimal.RequireFromString("-5000")}}
	h := NewPayslipGrpcHandler(stub, &stubEmployeeUseCase{})

	resp, err := h.Compute(context.Background(), mustStruct(t, map[string]any{
		"base_salary":      "30000.00",
		"deduction_absent": 35000,
	}))
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	if stub.computeInput.BaseSalary != "30000.00" || stub.computeInput.DeductionAbsent != "35000" {
		t.Fatalf("unexpected amounts passed: %+v", stub.computeInput)
	}
	if got := resp.GetFields()["total_label"].GetStringValue(); got != "-5 000.00" {
		t.Fatalf("unexpected total label: %q", got)
	}
}

func TestToRawAmounts_NonScalarValuesStayNonNumeric(t *testing.T) {
	t.Parallel()

	raw := toRawAmounts(mustStruct(t, map[string]any{
		"base_salary": "100",
		"fixed_bonus": map[string]any{"x": 1},
		"overtime":    []any{"5"},
	}))

	if raw.FixedBonus == "" || raw.Overtime == "" {
		t.Fatalf("expected non-scalar values to be kept, got %+v", raw)
	}
	if _, err := payroll.ParseAmounts(raw); err == nil {
		t.Fatalf("expected non-scalar amounts to be rejected")
	}
}

func TestPayslipGrpcHandler_ComputeRejectsStructAmount(t *testing.T) {
	t.Parallel()

	svc := payroll.NewService(payroll.Dependencies{})
	h := NewPayslipGrpcHandler(svc, &stubEmployeeUseCase{})

	_, err := h.Compute(context.Background(), mustStruct(t, map[string]any{
		"base_salary": "100",
		"fixed_bonus": map[string]any{"x": 1},
	}))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestPayslipGrpcHandler_Archive(t *testing.T) {
	t.Parallel()

	stub := &stubPayrollUseCase{actionOut: &payroll.ActionResult{
		Record:   sampleRecord(),
		Artifact: &payroll.DocumentArtifact{Name: "a.pdf", ContentType: "application/pdf", Content: []byte("%PDF-")},
	}}
	h := NewPayslipGrpcHandler(stub, &stubEmployeeUseCase{})

	resp, err := h.Archive(context.Background(), mustStruct(t, map[string]any{
		"employee_name": "Иванов Иван",
		"calc_date":     "31.10.2026",
		"fixed_bonus":   "5000",
	}))
	if err != nil {
		t.Fatalf("Archive returned error: %v", err)
	}

	if stub.lastAction != payroll.OpArchive || stub.actionInput.EmployeeName != "Иванов Иван" || stub.actionInput.Amounts.FixedBonus != "5000" {
		t.Fatalf("unexpected action input: %s %+v", stub.lastAction, stub.actionInput)
	}

	record := resp.GetFields()["record"].GetStructValue().GetFields()
	if record["calc_date"].GetStringValue() != "31.10.2026" || record["total"].GetStringValue() != "57200" {
		t.Fatalf("unexpected record: %v", record)
	}
	if resp.GetFields()["document"].GetStructValue().GetFields()["name"].GetStringValue() != "a.pdf" {
		t.Fatalf("expected document name in response")
	}
}

func TestPayslipGrpcHandler_ActionErrorsMapToStatus(t *testing.T) {
	t.Parallel()

	stub := &stubPayrollUseCase{actionErr: payroll.Validation(payroll.OpSend, payroll.ErrInvalidRecipient)}
	h := NewPayslipGrpcHandler(stub, &stubEmployeeUseCase{})

	_, err := h.Send(context.Background(), mustStruct(t, map[string]any{"employee_name": "Петров"}))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestPayslipGrpcHandler_ArchiveBrowsing(t *testing.T) {
	t.Parallel()

	stub := &stubPayrollUseCase{
		listOut: []*payroll.SalaryRecord{sampleRecord(), sampleRecord()},
		getOut:  sampleRecord(),
	}
	h := NewPayslipGrpcHandler(stub, &stubEmployeeUseCase{})
	ctx := context.Background()

	list, err := h.ListArchive(ctx, nil)
	if err != nil {
		t.Fatalf("ListArchive returned error: %v", err)
	}
	if n := len(list.GetFields()["records"].GetListValue().GetValues()); n != 2 {
		t.Fatalf("expected 2 records, got %d", n)
	}

	if _, err := h.GetArchived(ctx, mustStruct(t, map[string]any{})); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument without id, got %v", err)
	}
	if _, err := h.ViewArchived(ctx, mustStruct(t, map[string]any{"id": "rec-1"})); err != nil {
		t.Fatalf("ViewArchived returned error: %v", err)
	}
	if stub.getID != "rec-1" {
		t.Fatalf("unexpected id: %s", stub.getID)
	}

	stub.deleteErr = payroll.NotFound("archive delete", payroll.ErrRecordNotFound)
	if _, err := h.DeleteArchived(ctx, mustStruct(t, map[string]any{"id": "rec-1"})); status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestPayslipGrpcHandler_UpdateEmployeeOnlyPassesGivenFields(t *testing.T) {
	t.Parallel()

	out := &employee.Employee{ID: "emp-1", FullName: "Иванов Иван", BaseRate: decimal.RequireFromString("60000")}
	stub := &stubEmployeeUseCase{out: out}
	h := NewPayslipGrpcHandler(&stubPayrollUseCase{}, stub)

	resp, err := h.UpdateEmployee(context.Background(), mustStruct(t, map[string]any{
		"id":        "emp-1",
		"base_rate": "60000",
	}))
	if err != nil {
		t.Fatalf("UpdateEmployee returned error: %v", err)
	}

	in := stub.updateInput
	if in.ID != "emp-1" || in.BaseRate == nil || *in.BaseRate != "60000" {
		t.Fatalf("unexpected update input: %+v", in)
	}
	if in.FullName != nil || in.Email != nil || in.Warehouse != nil || in.Position != nil {
		t.Fatalf("expected absent fields to stay nil: %+v", in)
	}
	if resp.GetFields()["employee"].GetStructValue().GetFields()["base_rate"].GetStringValue() != "60000" {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestPayslipGrpcHandler_CreateEmployeeRequiresName(t *testing.T) {
	t.Parallel()

	h := NewPayslipGrpcHandler(&stubPayrollUseCase{}, &stubEmployeeUseCase{})

	_, err := h.CreateEmployee(context.Background(), mustStruct(t, map[string]any{"email": "a@b"}))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestToStatusError(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  error
		want codes.Code
	}{
		"validation":    {err: payroll.Validation("compute", errors.New("x")), want: codes.InvalidArgument},
		"not found":     {err: payroll.NotFound("archive get", payroll.ErrRecordNotFound), want: codes.NotFound},
		"render":        {err: payroll.Render("render pdf", errors.New("font")), want: codes.FailedPrecondition},
		"delivery":      {err: payroll.Delivery("send", errors.New("smtp")), want: codes.Unavailable},
		"persistence":   {err: payroll.Persistence("archive append", errors.New("db")), want: codes.Internal},
		"employee name": {err: employee.ErrInvalidFullName, want: codes.InvalidArgument},
		"duplicate":     {err: employee.ErrFullNameAlreadyExists, want: codes.AlreadyExists},
		"no employee":   {err: employee.ErrEmployeeNotFound, want: codes.NotFound},
		"unknown":       {err: errors.New("boom"), want: codes.Internal},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := status.Code(toStatusError(tc.err)); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}

	if toStatusError(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}
