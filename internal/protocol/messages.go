package protocol

// HELLO (observer -> host)
type HelloMsg struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	ObserverName    string   `json:"observer_name"`
	Worlds          []string `json:"worlds,omitempty"`
	SinceCursor     uint64   `json:"since_cursor,omitempty"`
}

// WELCOME (host -> observer)
type WelcomeMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	SessionID       string         `json:"session_id"`
	Cursor          uint64         `json:"cursor"`
	Dimensions      []DimensionRef `json:"dimensions"`
	Worlds          []WorldRef     `json:"worlds"`
	Catalogs        CatalogDigests `json:"catalogs"`
}

type DimensionRef struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	BaseType             string `json:"base_type"`
	AllowsPlayerRespawns bool   `json:"allows_player_respawns"`
	MinimumSpawnHeight   int    `json:"minimum_spawn_height"`
	WaterEvaporates      bool   `json:"water_evaporates"`
	HasSky               bool   `json:"has_sky"`
	Height               int    `json:"height"`
	BuildHeight          int    `json:"build_height"`
	KeepSpawnLoaded      bool   `json:"keep_spawn_loaded"`
}

type WorldRef struct {
	Name      string `json:"name"`
	UUID      string `json:"uuid"`
	Dimension string `json:"dimension"`
}

type CatalogDigests struct {
	BlockPalette DigestRef `json:"block_palette"`
	ItemPalette  DigestRef `json:"item_palette"`
	BlockDefs    string    `json:"block_defs_digest"`
	ItemDefs     string    `json:"item_defs_digest"`
}

type DigestRef struct {
	Digest string `json:"digest"`
	Count  int    `json:"count"`
}

// ERROR (host -> observer), sent before the host closes a session.
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Message         string `json:"message,omitempty"`
}
