package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
)

func parseSnowflake(value string) (snowflake.ID, bool) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || parsed == 0 {
		return 0, false
	}
	return parsed, true
}
