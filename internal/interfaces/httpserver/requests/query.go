package requests

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tahien663-cpu/chat-api/internal/domain/query"
	"github.com/tahien663-cpu/chat-api/internal/utils/platformerrors"
)

// GetCursorPaginationFromQuery parses limit/offset/order/after query
// parameters. The after cursor carries a public ID; resolveAfter translates
// it to the numeric row ID repositories paginate on.
func GetCursorPaginationFromQuery(reqCtx *gin.Context, resolveAfter func(string) (*uint, error)) (*query.Pagination, error) {
	limitStr := reqCtx.DefaultQuery("limit", "20")
	offsetStr := reqCtx.Query("offset")
	order := reqCtx.DefaultQuery("order", "desc")
	afterStr := reqCtx.Query("after")

	var limit *int
	if limitStr != "" {
		limitInt, err := strconv.Atoi(limitStr)
		if err != nil || limitInt < 1 {
			return nil, platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerHandler, platformerrors.ErrorTypeValidation, "invalid limit number", nil, "f2a84c17-5e09-4d3b-9a61-c8e72f04b5d3")
		}
		limit = &limitInt
	}

	var offset *int
	var after *uint
	if offsetStr != "" {
		offsetInt, err := strconv.Atoi(offsetStr)
		if err != nil {
			return nil, platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerHandler, platformerrors.ErrorTypeValidation, "invalid offset number", nil, "6d90b3e8-2c41-47f5-8a2d-1e5f9c07a462")
		}
		offset = &offsetInt
	} else if afterStr != "" {
		if resolveAfter == nil {
			return nil, platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerHandler, platformerrors.ErrorTypeValidation, "cursor pagination is not supported here", nil, "0b571f9d-8e26-4ca3-b740-3d6a81c2e595")
		}
		lastID, err := resolveAfter(afterStr)
		if err != nil {
			return nil, platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerHandler, platformerrors.ErrorTypeValidation, "invalid pagination cursor", err, "9c32e7a0-4f18-4b6d-95ce-7a0d2b8f1634")
		}
		after = lastID
	}

	if order != "asc" && order != "desc" {
		return nil, platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerHandler, platformerrors.ErrorTypeValidation, "invalid order", nil, "e48a0d25-7b93-4f61-82ad-5c1e6f9a3b07")
	}

	return &query.Pagination{
		Limit:  limit,
		Offset: offset,
		Order:  order,
		After:  after,
	}, nil
}
