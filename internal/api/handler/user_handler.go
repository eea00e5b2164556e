package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"strat-plan/backend/internal/dto"
	"strat-plan/backend/internal/service"
	pkgerrors "strat-plan/backend/pkg/errors"
	"strat-plan/backend/pkg/response"
)

// importFileMaxSize 导入文件大小上限
const importFileMaxSize = 5 << 20 // 5MB

// UserHandler 用户管理 HTTP 处理器（管理员）
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// Create 创建用户（返回一次性临时密码）
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.userSvc.CreateUser(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Created(c, result)
}

// Get 查询单个用户
// GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	result, err := h.userSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.OK(c, result)
}

// List 用户列表
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	var req dto.UserListRequest
	if !bindQuery(c, &req) {
		return
	}

	users, total, err := h.userSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.OKPage(c, users, total, req.GetPage(), req.GetPageSize())
}

// Update 更新用户信息
// PUT /api/v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.userSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete 删除用户
// DELETE /api/v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		h.writeError(c, err)
		return
	}

	response.OK(c, nil)
}

// AssignRole 分配角色
// PUT /api/v1/users/:id/role
func (h *UserHandler) AssignRole(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AssignRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.userSvc.AssignRole(c.Request.Context(), c.Param("id"), callerID, &req); err != nil {
		h.writeError(c, err)
		return
	}

	response.OK(c, nil)
}

// ResetPassword 重置密码（返回一次性临时密码）
// POST /api/v1/users/:id/reset-password
func (h *UserHandler) ResetPassword(c *gin.Context) {
	result, err := h.userSvc.ResetPassword(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.OK(c, result)
}

// Import 从 Excel 批量导入用户
// POST /api/v1/users/import  (multipart 字段名 file)
func (h *UserHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 15001, "请上传导入文件")
		return
	}
	if fileHeader.Size > importFileMaxSize {
		response.BadRequest(c, 15002, "导入文件过大")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer f.Close()

	result, err := h.userSvc.ImportUsers(c.Request.Context(), f)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.OK(c, result)
}

// writeError 用户模块业务错误 → HTTP 响应
func (h *UserHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 15003, "用户不存在")
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, 15004, "邮箱已被注册")
	case errors.Is(err, service.ErrUserSelfDelete):
		response.BadRequest(c, 15005, "不能删除自己的账号")
	case errors.Is(err, service.ErrUserSelfRoleChange):
		response.BadRequest(c, 15006, "不能修改自己的角色")
	case errors.Is(err, service.ErrImportFileInvalid):
		response.BadRequest(c, 15007, "导入文件格式无效")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 15008, "数据已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/user_handler.go
