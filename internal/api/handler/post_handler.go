package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-service/internal/model"
	"github.com/d60-Lab/blog-service/internal/repository"
	"github.com/d60-Lab/blog-service/pkg/response"
)

// ListPosts 文章列表
// @Summary 查询全部文章（按创建时间倒序）
// @Tags 文章
// @Produce json
// @Success 200 {object} response.Response{data=[]model.Post}
// @Failure 500 {object} response.Response
// @Router /posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	posts, err := h.posts.List.Execute(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, posts)
}

// GetPost 查询单篇文章
// @Summary 查询文章
// @Tags 文章
// @Produce json
// @Param id path int true "文章ID"
// @Success 200 {object} response.Response{data=model.Post}
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /posts/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "invalid post id")
		return
	}
	post, err := h.posts.Get.Execute(c.Request.Context(), id)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if post == nil {
		response.InternalError(c, &repository.NotFoundError{Entity: "post", ID: id})
		return
	}
	response.Success(c, post)
}

// CreatePost 创建文章
// @Summary 创建文章
// @Tags 文章
// @Accept json
// @Produce json
// @Param request body model.CreatePostData true "文章内容"
// @Success 200 {object} response.Response{data=model.Post}
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req model.CreatePostData
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.posts.Create.Execute(c.Request.Context(), req)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, post)
}

// UpdatePost 部分更新文章
// @Summary 更新文章（只更新传入字段）
// @Tags 文章
// @Accept json
// @Produce json
// @Param id path int true "文章ID"
// @Param request body model.UpdatePostData true "待更新字段"
// @Success 200 {object} response.Response{data=model.Post}
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /posts/{id} [patch]
func (h *Handler) UpdatePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "invalid post id")
		return
	}
	var req model.UpdatePostData
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.posts.Update.Execute(c.Request.Context(), id, req)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, post)
}

// DeletePost 删除文章
// @Summary 删除文章
// @Tags 文章
// @Produce json
// @Param id path int true "文章ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "invalid post id")
		return
	}
	if err := h.posts.Delete.Execute(c.Request.Context(), id); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}
