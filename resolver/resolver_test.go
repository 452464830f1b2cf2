// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package resolver

import (
	"errors"
	"net/url"
	"reflect"
	"strconv"
	"testing"

	"github.com/danielhkuo/follow-rotator/models"
	"github.com/danielhkuo/follow-rotator/platform"
	"github.com/danielhkuo/follow-rotator/token"
)

func newResolver(opts ...Option) (*Resolver, *token.Codec) {
	codec := token.NewCodec(platform.Default())
	return New(codec, opts...), codec
}

func mustEncode(t *testing.T, codec *token.Codec, cfg models.Configuration) string {
	t.Helper()
	tok, err := codec.Encode(cfg)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	return tok
}

func TestResolve_EmptyQueryUsesDefaults(t *testing.T) {
	r, _ := newResolver()

	cfg, source := r.Explain(url.Values{})
	if source != models.SourceDefault {
		t.Errorf("expected source default, got %s", source)
	}
	if !reflect.DeepEqual(cfg.Items, DefaultItems()) {
		t.Errorf("expected default items, got %+v", cfg.Items)
	}
	if cfg.Timing != models.DefaultTiming() {
		t.Errorf("expected default timing, got %+v", cfg.Timing)
	}
}

func TestResolve_TokenWinsOverDiscreteParams(t *testing.T) {
	r, codec := newResolver()
	tokenCfg := models.Configuration{
		Items:  []models.RotationItem{{Platform: platform.Twitch, Text: "twitch.tv/me"}},
		Timing: models.TimingConfig{HoldMs: 2000, AnimInMs: 300, AnimOutMs: 400},
	}

	q := url.Values{}
	q.Set(ParamToken, mustEncode(t, codec, tokenCfg))
	q.Set(ParamData, `[{"platform":"discord","text":"discord.gg/other"}]`)
	q.Set(ParamHold, "1")
	q.Set(ParamAnimIn, "2")
	q.Set(ParamAnimOut, "3")

	cfg, source := r.Explain(q)
	if source != models.SourceToken {
		t.Errorf("expected source token, got %s", source)
	}
	if !reflect.DeepEqual(cfg, tokenCfg) {
		t.Errorf("expected token configuration %+v, got %+v", tokenCfg, cfg)
	}
}

func TestResolve_CompactToken(t *testing.T) {
	r, codec := newResolver()
	want := models.Configuration{
		Items:  []models.RotationItem{{Platform: platform.Instagram, Text: "@me"}},
		Timing: models.TimingConfig{HoldMs: 5000, AnimInMs: 500, AnimOutMs: 500},
	}
	tok, err := codec.Compress(want)
	if err != nil {
		t.Fatal(err)
	}

	cfg, source := r.Explain(url.Values{ParamToken: {tok}})
	if source != models.SourceToken {
		t.Errorf("expected source token, got %s", source)
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("expected %+v, got %+v", want, cfg)
	}
}

func TestResolve_InvalidTokenFallsThrough(t *testing.T) {
	r, _ := newResolver()

	q := url.Values{}
	q.Set(ParamToken, "%%%not-a-token")
	q.Set(ParamData, `[{"platform":"x","text":"@fallback"}]`)
	q.Set(ParamHold, "4000")

	cfg, source := r.Explain(q)
	if source != models.SourceData {
		t.Errorf("expected source data, got %s", source)
	}
	if len(cfg.Items) != 1 || cfg.Items[0].Text != "@fallback" {
		t.Errorf("expected data items, got %+v", cfg.Items)
	}
	if cfg.Timing.HoldMs != 4000 {
		t.Errorf("expected hold 4000, got %d", cfg.Timing.HoldMs)
	}
}

func TestResolve_PartialTimingOverride(t *testing.T) {
	r, _ := newResolver()

	cfg := r.Resolve(url.Values{ParamHold: {"5000"}})
	want := models.TimingConfig{HoldMs: 5000, AnimInMs: models.DefaultAnimInMs, AnimOutMs: models.DefaultAnimOutMs}
	if cfg.Timing != want {
		t.Errorf("expected %+v, got %+v", want, cfg.Timing)
	}
}

func TestResolve_BadTimingIgnored(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
		want  models.TimingConfig
	}{
		{"non-numeric", url.Values{ParamHold: {"soon"}}, models.DefaultTiming()},
		{"negative", url.Values{ParamAnimIn: {"-5"}}, models.DefaultTiming()},
		{"float", url.Values{ParamAnimOut: {"1.5"}}, models.DefaultTiming()},
		{"mixed", url.Values{ParamHold: {"x"}, ParamAnimOut: {"250"}}, models.TimingConfig{HoldMs: 9000, AnimInMs: 1000, AnimOutMs: 250}},
		{"zero", url.Values{ParamAnimIn: {"0"}}, models.TimingConfig{HoldMs: 9000, AnimInMs: 0, AnimOutMs: 1000}},
		{"too large", url.Values{ParamHold: {"10000000000000"}}, models.DefaultTiming()},
		{"overflows int", url.Values{ParamAnimOut: {"99999999999999999999"}}, models.DefaultTiming()},
	}

	r, _ := newResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := r.Resolve(tt.query)
			if cfg.Timing != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, cfg.Timing)
			}
		})
	}
}

func TestResolve_DataParam(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		wantSource string
		wantTexts  []string
	}{
		{"valid", `[{"platform":"tiktok","text":" @a "},{"platform":"youtube","text":"@b"}]`, models.SourceData, []string{"@a", "@b"}},
		{"blank texts dropped", `[{"platform":"tiktok","text":"  "},{"platform":"x","text":"@c"}]`, models.SourceData, []string{"@c"}},
		{"all blank", `[{"platform":"tiktok","text":""}]`, models.SourceDefault, nil},
		{"empty array", `[]`, models.SourceDefault, nil},
		{"object", `{"platform":"tiktok","text":"@a"}`, models.SourceDefault, nil},
		{"broken json", `[{"platform":`, models.SourceDefault, nil},
	}

	r, _ := newResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, source := r.Explain(url.Values{ParamData: {tt.data}})
			if source != tt.wantSource {
				t.Errorf("expected source %s, got %s", tt.wantSource, source)
			}
			if tt.wantTexts == nil {
				if !reflect.DeepEqual(cfg.Items, DefaultItems()) {
					t.Errorf("expected default items, got %+v", cfg.Items)
				}
				return
			}
			if len(cfg.Items) != len(tt.wantTexts) {
				t.Fatalf("expected %d items, got %d", len(tt.wantTexts), len(cfg.Items))
			}
			for i, text := range tt.wantTexts {
				if cfg.Items[i].Text != text {
					t.Errorf("item %d: expected %q, got %q", i, text, cfg.Items[i].Text)
				}
			}
		})
	}
}

func TestResolve_TokenWithBlankItemsKeepsTokenTiming(t *testing.T) {
	r, codec := newResolver()
	tok := mustEncode(t, codec, models.Configuration{
		Items:  []models.RotationItem{{Platform: platform.TikTok, Text: "   "}},
		Timing: models.TimingConfig{HoldMs: 1, AnimInMs: 2, AnimOutMs: 3},
	})

	cfg := r.Resolve(url.Values{ParamToken: {tok}, ParamData: {`[{"platform":"x","text":"@data"}]`}})
	if !reflect.DeepEqual(cfg.Items, DefaultItems()) {
		t.Errorf("expected default items, got %+v", cfg.Items)
	}
	if cfg.Timing != (models.TimingConfig{HoldMs: 1, AnimInMs: 2, AnimOutMs: 3}) {
		t.Errorf("expected token timing, got %+v", cfg.Timing)
	}
}

func TestResolve_DefaultsDoNotAlias(t *testing.T) {
	r, _ := newResolver()
	cfg := r.Resolve(url.Values{})
	cfg.Items[0].Text = "mutated"
	DefaultItems()[1].Text = "mutated"

	if again := r.Resolve(url.Values{}); !reflect.DeepEqual(again.Items, DefaultItems()) {
		t.Errorf("Resolve() must return a copy of the default items, got %+v", again.Items)
	}
}

func TestResolve_Options(t *testing.T) {
	items := []models.RotationItem{{Platform: platform.Facebook, Text: "fb.me/page"}}
	timing := models.TimingConfig{HoldMs: 100, AnimInMs: 10, AnimOutMs: 20}
	r, _ := newResolver(WithDefaultItems(items), WithDefaultTiming(timing))

	cfg := r.Resolve(url.Values{ParamAnimIn: {"50"}})
	if !reflect.DeepEqual(cfg.Items, items) {
		t.Errorf("expected custom default items, got %+v", cfg.Items)
	}
	if cfg.Timing != (models.TimingConfig{HoldMs: 100, AnimInMs: 50, AnimOutMs: 20}) {
		t.Errorf("unexpected timing %+v", cfg.Timing)
	}
}

func TestParseMillis(t *testing.T) {
	if v, err := ParseMillis(" 9000 "); err != nil || v != 9000 {
		t.Errorf("ParseMillis(' 9000 ') = %d, %v", v, err)
	}
	limit := strconv.FormatInt(models.MaxTimingMs, 10)
	if v, err := ParseMillis(limit); err != nil || int64(v) != models.MaxTimingMs {
		t.Errorf("ParseMillis(%s) = %d, %v", limit, v, err)
	}
	for _, raw := range []string{"", "abc", "-1", "1e3", "10000000000000", strconv.FormatInt(models.MaxTimingMs+1, 10)} {
		if _, err := ParseMillis(raw); !errors.Is(err, ErrBadInteger) {
			t.Errorf("ParseMillis(%q) error = %v, want ErrBadInteger", raw, err)
		}
	}
}
