package article

import (
	"context"
	"log/slog"
	"net/http"

	"postboard/internal/handler/http/auth"
	"postboard/internal/handler/http/respond"
	"postboard/internal/observability/logging"
	"postboard/internal/repository"
	authservice "postboard/internal/service/auth"
	artUC "postboard/internal/usecase/article"
)

// Service is the article lifecycle used by the handlers.
type Service interface {
	List(ctx context.Context) ([]repository.ArticleWithOwner, error)
	Get(ctx context.Context, id string) (repository.ArticleWithOwner, error)
	Create(ctx context.Context, claims *authservice.Claims, in artUC.CreateInput) (repository.ArticleWithOwner, error)
	Update(ctx context.Context, claims *authservice.Claims, id string, in artUC.UpdateInput) (repository.ArticleWithOwner, error)
	Delete(ctx context.Context, claims *authservice.Claims, id string) error
}

type ListHandler struct{ Svc Service }

// ServeHTTP lists every article.
// @Summary      List articles
// @Description  Returns every article, newest first, with its author
// @Tags         articles
// @Produce      json
// @Success      200 {array} DTO
// @Failure      500 {string} string "Internal server error"
// @Router       /posts [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]DTO, 0, len(list))
	for _, v := range list {
		out = append(out, NewDTO(v))
	}
	respond.JSON(w, http.StatusOK, out)
}

type GetHandler struct{ Svc Service }

// ServeHTTP returns one article.
// @Summary      Get article
// @Description  Returns the article with the given ID and its author
// @Tags         articles
// @Produce      json
// @Param        id path string true "Article ID (UUID)"
// @Success      200 {object} DTO
// @Failure      400 {string} string "Bad request - invalid article ID"
// @Failure      404 {string} string "Not found - article not found"
// @Failure      500 {string} string "Internal server error"
// @Router       /posts/{id} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	v, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, NewDTO(v))
}

type CreateHandler struct{ Svc Service }

// ServeHTTP creates an article owned by the caller.
// @Summary      Create article
// @Description  Creates an article; an attached image is uploaded before anything is written
// @Tags         articles
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        title    formData string true  "Title"
// @Param        subtitle formData string false "Subtitle"
// @Param        content  formData string true  "Body text"
// @Param        image    formData file   false "Image (image/*, at most 5 MiB)"
// @Success      201 {object} DTO
// @Failure      400 {string} string "Bad request - invalid input"
// @Failure      401 {string} string "Authentication required - missing, invalid or expired token"
// @Failure      500 {string} string "Image upload failed or internal error"
// @Router       /posts [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, authservice.ErrUnauthenticated)
		return
	}
	form, err := parseForm(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	v, err := h.Svc.Create(r.Context(), claims, artUC.CreateInput{
		Title:    form.Title,
		Subtitle: form.Subtitle,
		Body:     form.Content,
		Image:    form.Image,
	})
	if err != nil {
		logFailure(r, "create", err)
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, NewDTO(v))
}

type UpdateHandler struct{ Svc Service }

// ServeHTTP rewrites an article the caller owns.
// @Summary      Update article
// @Description  Replaces title, subtitle and content; the stored image is kept unless a new one is attached
// @Tags         articles
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        id       path     string true  "Article ID (UUID)"
// @Param        title    formData string true  "Title"
// @Param        subtitle formData string false "Subtitle"
// @Param        content  formData string true  "Body text"
// @Param        image    formData file   false "Replacement image (image/*, at most 5 MiB)"
// @Success      200 {object} DTO
// @Failure      400 {string} string "Bad request - invalid input"
// @Failure      401 {string} string "Authentication required - missing, invalid or expired token"
// @Failure      403 {string} string "Forbidden - only the owner can modify this article"
// @Failure      404 {string} string "Not found - article not found"
// @Failure      500 {string} string "Image upload failed or internal error"
// @Router       /posts/{id} [put]
func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, authservice.ErrUnauthenticated)
		return
	}
	form, err := parseForm(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	v, err := h.Svc.Update(r.Context(), claims, r.PathValue("id"), artUC.UpdateInput{
		Title:    form.Title,
		Subtitle: form.Subtitle,
		Body:     form.Content,
		Image:    form.Image,
	})
	if err != nil {
		logFailure(r, "update", err)
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, NewDTO(v))
}

type DeleteHandler struct{ Svc Service }

// ServeHTTP removes an article the caller owns.
// @Summary      Delete article
// @Description  Deletes the article; its image is removed on a best-effort basis
// @Tags         articles
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Article ID (UUID)"
// @Success      200 {object} messageResponse
// @Failure      400 {string} string "Bad request - invalid article ID"
// @Failure      401 {string} string "Authentication required - missing, invalid or expired token"
// @Failure      403 {string} string "Forbidden - only the owner can modify this article"
// @Failure      404 {string} string "Not found - article not found"
// @Router       /posts/{id} [delete]
func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, authservice.ErrUnauthenticated)
		return
	}
	if err := h.Svc.Delete(r.Context(), claims, r.PathValue("id")); err != nil {
		logFailure(r, "delete", err)
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, messageResponse{Message: "article deleted"})
}

func logFailure(r *http.Request, op string, err error) {
	logging.FromContext(r.Context()).Warn("article "+op+" failed",
		slog.String("article_id", r.PathValue("id")),
		slog.String("error", respond.SanitizeError(err)))
}
