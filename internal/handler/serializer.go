package handler

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
)

// Serializer swaps echo's default encoding/json for json-iterator,
// keeping output byte-compatible with the standard library.
type Serializer struct {
	json jsoniter.API
}

func NewSerializer() *Serializer {
	return &Serializer{
		json: jsoniter.ConfigCompatibleWithStandardLibrary,
	}
}

func (s *Serializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := s.json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (s *Serializer) Deserialize(c echo.Context, i interface{}) error {
	if err := s.json.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("Unmarshal error: %v", err)).SetInternal(err)
	}
	return nil
}
