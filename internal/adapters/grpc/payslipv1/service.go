// Package payslipv1 は payslip.v1.PayslipService のサービス記述子です。
// リクエストとレスポンスはすべて google.protobuf.Struct で表現します。
package payslipv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "payslip.v1.PayslipService"

const (
	MethodCompute          = "Compute"
	MethodPreview          = "Preview"
	MethodArchive          = "Archive"
	MethodSend             = "Send"
	MethodListArchive      = "ListArchive"
	MethodGetArchived      = "GetArchived"
	MethodViewArchived     = "ViewArchived"
	MethodDeleteArchived   = "DeleteArchived"
	MethodListEmployees    = "ListEmployees"
	MethodCreateEmployee   = "CreateEmployee"
	MethodUpdateEmployee   = "UpdateEmployee"
	MethodDeleteEmployee   = "DeleteEmployee"
	MethodRefreshEmployees = "RefreshEmployees"
)

// PayslipServiceServer は PayslipService のサーバー側インターフェースです。
type PayslipServiceServer interface {
	Compute(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Preview(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Archive(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Send(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListArchive(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetArchived(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ViewArchived(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteArchived(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListEmployees(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RefreshEmployees(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// FullMethod は "/payslip.v1.PayslipService/<method>" を返します。
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// RegisterPayslipServiceServer は srv をサーバーに登録します。
func RegisterPayslipServiceServer(s grpc.ServiceRegistrar, srv PayslipServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

type unaryCall func(PayslipServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	fullMethod := FullMethod(method)
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PayslipServiceServer), ctx, in)
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(PayslipServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}, handler)
	}
}

// ServiceDesc は PayslipService の grpc.ServiceDesc です。
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PayslipServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodCompute, Handler: unaryHandler(MethodCompute, PayslipServiceServer.Compute)},
		{MethodName: MethodPreview, Handler: unaryHandler(MethodPreview, PayslipServiceServer.Preview)},
		{MethodName: MethodArchive, Handler: unaryHandler(MethodArchive, PayslipServiceServer.Archive)},
		{MethodName: MethodSend, Handler: unaryHandler(MethodSend, PayslipServiceServer.Send)},
		{MethodName: MethodListArchive, Handler: unaryHandler(MethodListArchive, PayslipServiceServer.ListArchive)},
		{MethodName: MethodGetArchived, Handler: unaryHandler(MethodGetArchived, PayslipServiceServer.GetArchived)},
		{MethodName: MethodViewArchived, Handler: unaryHandler(MethodViewArchived, PayslipServiceServer.ViewArchived)},
		{MethodName: MethodDeleteArchived, Handler: unaryHandler(MethodDeleteArchived, PayslipServiceServer.DeleteArchived)},
		{MethodName: MethodListEmployees, Handler: unaryHandler(MethodListEmployees, PayslipServiceServer.ListEmployees)},
		{MethodName: MethodCreateEmployee, Handler: unaryHandler(MethodCreateEmployee, PayslipServiceServer.CreateEmployee)},
		{MethodName: MethodUpdateEmployee, Handler: unaryHandler(MethodUpdateEmployee, PayslipServiceServer.UpdateEmployee)},
		{MethodName: MethodDeleteEmployee, Handler: unaryHandler(MethodDeleteEmployee, PayslipServiceServer.DeleteEmployee)},
		{MethodName: MethodRefreshEmployees, Handler: unaryHandler(MethodRefreshEmployees, PayslipServiceServer.RefreshEmployees)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "payslip/v1/payslip.proto",
}

// Client は PayslipService のクライアントです。
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient は Client を生成します。
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call は method を単項呼び出しします。
func (c *Client) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
