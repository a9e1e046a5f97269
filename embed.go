package vizitka

import "embed"

// EmbeddedAssets contains the static files the designer page loads:
// vizitka.css
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
