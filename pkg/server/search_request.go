package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/schema"

	"github.com/matst80/slask-store/pkg/catalog"
	"github.com/matst80/slask-store/pkg/types"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

func clamp[T int | float64](value, minValue, maxValue T) T {
	if value < minValue {
		return minValue
	}
	if value > maxValue {
		return maxValue
	}
	return value
}

func sanitize(c *catalog.Criteria) {
	c.Page = clamp(c.Page, 0, 10000)
	c.PageSize = clamp(c.PageSize, 0, 96)
	c.Normalize()
}

// CriteriaFromRequest decodes the filter criteria from the query string on
// GET and from the JSON body otherwise. Category selections arrive as
// repeated cat parameters.
func CriteriaFromRequest(r *http.Request) (catalog.Criteria, error) {
	criteria := catalog.Criteria{}
	var err error
	if r.Method == http.MethodGet {
		err = criteriaFromQuery(r.URL.Query(), &criteria)
	} else {
		err = json.NewDecoder(r.Body).Decode(&criteria)
	}
	sanitize(&criteria)
	return criteria, err
}

func criteriaFromQuery(query url.Values, result *catalog.Criteria) error {
	if err := decoder.Decode(result, query); err != nil {
		return err
	}
	for _, v := range query["cat"] {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			continue
		}
		result.Categories = append(result.Categories, types.CategoryId(id))
	}
	return nil
}
