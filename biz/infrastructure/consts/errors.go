package consts

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Errno struct {
	err  error
	code codes.Code
}

// GRPCStatus 实现 GRPCStatus 方法
func (en *Errno) GRPCStatus() *status.Status {
	return status.New(en.code, en.err.Error())
}

// 实现 Error 方法
func (en *Errno) Error() string {
	return en.err.Error()
}

// NewErrno 创建自定义错误
func NewErrno(code codes.Code, err error) *Errno {
	return &Errno{
		err:  err,
		code: code,
	}
}

// 定义常量错误
var (
	ErrForbidden            = NewErrno(codes.PermissionDenied, errors.New("forbidden"))
	ErrNotAuthentication    = NewErrno(codes.Code(1000), errors.New("not authentication"))
	ErrSignUp               = NewErrno(codes.Code(1001), errors.New("注册失败，请重试"))
	ErrSignIn               = NewErrno(codes.Code(1002), errors.New("登录失败，请先注册或重试"))
	ErrCreateClass          = NewErrno(codes.Code(1010), errors.New("创建课程失败"))
	ErrGetClassList         = NewErrno(codes.Code(1011), errors.New("获取课程列表失败"))
	ErrJoinClass            = NewErrno(codes.Code(1012), errors.New("加入课程失败"))
	ErrLeaveClass           = NewErrno(codes.Code(1013), errors.New("退出课程失败"))
	ErrDeleteClass          = NewErrno(codes.Code(1014), errors.New("删除课程失败"))
	ErrClassFull            = NewErrno(codes.Code(1015), errors.New("课程名额已满"))
	ErrNotClassMember       = NewErrno(codes.Code(1016), errors.New("用户不是课程成员"))
	ErrInvalidClassType     = NewErrno(codes.Code(1017), errors.New("不支持的课程类型"))
	ErrClassEnded           = NewErrno(codes.Code(1018), errors.New("课程已结束"))
	ErrCreateGroup          = NewErrno(codes.Code(1020), errors.New("创建小组失败"))
	ErrJoinGroup            = NewErrno(codes.Code(1021), errors.New("加入小组失败"))
	ErrLeaveGroup           = NewErrno(codes.Code(1022), errors.New("退出小组失败"))
	ErrDeleteGroup          = NewErrno(codes.Code(1023), errors.New("删除小组失败"))
	ErrNotGroupMember       = NewErrno(codes.Code(1024), errors.New("用户不是小组成员"))
	ErrCreateRooms          = NewErrno(codes.Code(1030), errors.New("创建分组讨论房间失败"))
	ErrGetRoomList          = NewErrno(codes.Code(1031), errors.New("获取房间列表失败"))
	ErrRoomFull             = NewErrno(codes.Code(1032), errors.New("房间名额已满"))
	ErrRoomExpired          = NewErrno(codes.Code(1033), errors.New("房间已结束"))
	ErrAlreadyInRoom        = NewErrno(codes.Code(1034), errors.New("已在该房间中"))
	ErrJoinRoom             = NewErrno(codes.Code(1035), errors.New("加入房间失败"))
	ErrLeaveRoom            = NewErrno(codes.Code(1036), errors.New("退出房间失败"))
	ErrNotHost              = NewErrno(codes.Code(1037), errors.New("仅主持人可以执行该操作"))
	ErrNotInCall            = NewErrno(codes.Code(1040), errors.New("当前不在通话中"))
	ErrJoinCall             = NewErrno(codes.Code(1041), errors.New("加入通话失败，请重试"))
	ErrMintToken            = NewErrno(codes.Code(1042), errors.New("生成通话令牌失败"))
	ErrEnsureChannel        = NewErrno(codes.Code(1050), errors.New("获取聊天频道失败"))
	ErrInsufficientCredit   = NewErrno(codes.Code(1060), errors.New("剩余课时不足，请购买课时或订阅会员"))
	ErrSubscriptionRequired = NewErrno(codes.Code(1061), errors.New("该课程仅对订阅会员开放"))
	ErrGetPlanList          = NewErrno(codes.Code(1062), errors.New("获取订阅套餐失败"))
)

// ErrInvalidParams 调用时错误
var (
	ErrInvalidParams = NewErrno(codes.InvalidArgument, errors.New("参数错误"))
	ErrCall          = NewErrno(codes.Unknown, errors.New("调用接口失败，请重试"))
)

// 数据库相关错误
var (
	ErrNotFound        = NewErrno(codes.NotFound, errors.New("not found"))
	ErrInvalidObjectId = NewErrno(codes.InvalidArgument, errors.New("无效的id "))
	ErrUpdate          = NewErrno(codes.Code(2001), errors.New("更新失败"))
)
