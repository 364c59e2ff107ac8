package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-service/internal/model"
	"github.com/d60-Lab/blog-service/internal/repository"
	"github.com/d60-Lab/blog-service/pkg/response"
)

// ListBlogs 博客列表
// @Summary 查询全部博客（按创建时间倒序）
// @Tags 博客
// @Produce json
// @Success 200 {object} response.Response{data=[]model.Blog}
// @Failure 500 {object} response.Response
// @Router /blogs [get]
func (h *Handler) ListBlogs(c *gin.Context) {
	blogs, err := h.blogs.List.Execute(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, blogs)
}

// GetBlog 查询单个博客
// @Summary 查询博客
// @Tags 博客
// @Produce json
// @Param id path int true "博客ID"
// @Success 200 {object} response.Response{data=model.Blog}
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /blogs/{id} [get]
func (h *Handler) GetBlog(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "invalid blog id")
		return
	}
	blog, err := h.blogs.Get.Execute(c.Request.Context(), id)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if blog == nil {
		response.InternalError(c, &repository.NotFoundError{Entity: "blog", ID: id})
		return
	}
	response.Success(c, blog)
}

// CreateBlog 创建博客
// @Summary 创建博客
// @Tags 博客
// @Accept json
// @Produce json
// @Param request body model.CreateBlogData true "博客内容"
// @Success 200 {object} response.Response{data=model.Blog}
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /blogs [post]
func (h *Handler) CreateBlog(c *gin.Context) {
	var req model.CreateBlogData
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	blog, err := h.blogs.Create.Execute(c.Request.Context(), req)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, blog)
}
