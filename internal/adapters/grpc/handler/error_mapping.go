package handler

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ogurasousui/payslip-service/internal/core/employee"
	"github.com/ogurasousui/payslip-service/internal/core/payroll"
)

func toStatusError(err error) error {
	if err == nil {
		return nil
	}

	switch payroll.KindOf(err) {
	case payroll.KindValidation:
		return status.Error(codes.InvalidArgument, err.Error())
	case payroll.KindNotFound:
		return status.Error(codes.NotFound, err.Error())
	case payroll.KindRender:
		return status.Error(codes.FailedPrecondition, err.Error())
	case payroll.KindDelivery:
		return status.Error(codes.Unavailable, err.Error())
	case payroll.KindPersistence:
		return status.Error(codes.Internal, err.Error())
	}

	switch {
	case errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, employee.ErrInvalidFullName),
		errors.Is(err, employee.ErrInvalidEmail),
		errors.Is(err, employee.ErrInvalidBaseRate),
		errors.Is(err, employee.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, employee.ErrFullNameAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, employee.ErrEmployeeNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
