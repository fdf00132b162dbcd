// Package version provides build-time version metadata for the plugin
// host, set via -ldflags at build time.
//
// # Build-time Configuration
//
//	go build -ldflags "\
//	    -X github.com/genotrance/plugins/pkg/version.Version=1.2.3 \
//	    -X github.com/genotrance/plugins/pkg/version.BuildDate=$(date -u +%Y-%m-%dT%H:%M:%SZ) \
//	    -X github.com/genotrance/plugins/pkg/version.GitCommit=$(git rev-parse HEAD)"
//
// # Accessing Version Information
//
//	v := version.Get()
//	info := version.GetBuildInfo()
//	banner := version.Banner() // multi-line, returned by the getVersionBanner command verb
package version
