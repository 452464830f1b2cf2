// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package resolver

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/danielhkuo/follow-rotator/models"
)

// FullURLLength is the length of the overlay URL at base carrying cfg as
// discrete data/hold/animIn/animOut query parameters
func FullURLLength(base string, cfg models.Configuration) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(cfg.Items); err != nil {
		return 0, err
	}

	params := url.Values{}
	params.Set(ParamData, strings.TrimSuffix(buf.String(), "\n"))
	params.Set(ParamHold, strconv.Itoa(cfg.Timing.HoldMs))
	params.Set(ParamAnimIn, strconv.Itoa(cfg.Timing.AnimInMs))
	params.Set(ParamAnimOut, strconv.Itoa(cfg.Timing.AnimOutMs))

	return len(base + "?" + params.Encode()), nil
}
