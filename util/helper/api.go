package helper_util

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	echo_errors "github.com/dev-mohitbeniwal/accessledger/errors"
)

const maxPageLimit = 500

func GetPaginationParams(c *gin.Context) (limit int, offset int, err error) {
	limit, err = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 || limit > maxPageLimit {
		return 0, 0, fmt.Errorf("%w: limit must be between 1 and %d", echo_errors.ErrInvalidPagination, maxPageLimit)
	}
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return 0, 0, fmt.Errorf("%w: offset must be a non-negative integer", echo_errors.ErrInvalidPagination)
	}
	return limit, offset, nil
}
