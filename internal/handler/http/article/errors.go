package article

import (
	"errors"
	"net/http"

	"postboard/internal/domain/entity"
	"postboard/internal/handler/http/respond"
	authservice "postboard/internal/service/auth"
	artUC "postboard/internal/usecase/article"
	"postboard/internal/usecase/media"
)

var (
	errInvalidForm  = errors.New("invalid multipart form")
	errBodyTooLarge = errors.New("request body too large")
)

// writeError maps article lifecycle errors onto the HTTP taxonomy.
func writeError(w http.ResponseWriter, err error) {
	var vErr *entity.ValidationError
	switch {
	case errors.As(err, &vErr):
		respond.SafeError(w, http.StatusBadRequest, vErr)
	case errors.Is(err, errInvalidForm), errors.Is(err, errBodyTooLarge):
		respond.SafeError(w, http.StatusBadRequest, err)
	case errors.Is(err, artUC.ErrInvalidArticleID):
		respond.SafeError(w, http.StatusBadRequest, artUC.ErrInvalidArticleID)
	case errors.Is(err, authservice.ErrUnauthenticated):
		w.Header().Set("WWW-Authenticate", `Bearer realm="postboard"`)
		respond.SafeErrorV2(w, http.StatusUnauthorized,
			respond.NewAppError(http.StatusUnauthorized, "authentication required", err))
	case errors.Is(err, artUC.ErrForbidden):
		respond.SafeErrorV2(w, http.StatusForbidden,
			respond.NewAppError(http.StatusForbidden, artUC.ErrForbidden.Error(), err))
	case errors.Is(err, artUC.ErrArticleNotFound):
		respond.SafeError(w, http.StatusNotFound, artUC.ErrArticleNotFound)
	case errors.Is(err, media.ErrUpload):
		respond.SafeErrorV2(w, http.StatusInternalServerError,
			respond.NewAppError(http.StatusInternalServerError, media.ErrUpload.Error(), err))
	default:
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}
