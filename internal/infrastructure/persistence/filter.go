package persistence

import (
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/velocore/backend/internal/domain/shared"
)

var orderColumnPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// applyFilter applies ordering and pagination from a shared filter. Order
// columns are validated against a snake_case pattern so filter input can
// never inject SQL.
func applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	orderBy := filter.OrderBy
	if orderBy == "" || !orderColumnPattern.MatchString(orderBy) {
		orderBy = "created_at"
	}
	orderDir := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		orderDir = "ASC"
	}

	return query.
		Order(fmt.Sprintf("%s %s", orderBy, orderDir)).
		Offset(filter.Offset()).
		Limit(filter.Limit())
}
