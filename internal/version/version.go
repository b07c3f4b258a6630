// Package version identifies the listener build.
//
// The version is printed by `listener -version`, logged at startup and sent
// as the User-Agent on token requests and gateway upgrades, so the OAuth and
// gateway sides can tell listener builds apart. Values are set via ldflags:
//
//	go build -ldflags "-X github.com/rickgao/zoom-events/internal/version.Version=1.0.0 \
//	                   -X github.com/rickgao/zoom-events/internal/version.Commit=$(git rev-parse --short HEAD) \
//	                   -X github.com/rickgao/zoom-events/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	         ./cmd/listener
package version

// Build-time variables (set via ldflags)
var (
	Version   = "dev"     // Semantic version, e.g. "1.0.0"
	Commit    = "unknown" // Short git commit hash
	BuildTime = "unknown" // UTC build timestamp (ISO 8601)
)

// Product is the name sent in User-Agent headers.
const Product = "zoom-events-listener"

// String returns the line printed by -version.
func String() string {
	return Product + " " + Version + " (" + Commit + ") built " + BuildTime
}

// UserAgent returns the User-Agent value for outbound token and gateway requests.
func UserAgent() string {
	return Product + "/" + Version
}
