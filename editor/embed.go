// ABOUTME: Embedded filesystem for the editor widget glue script and stylesheet.
// ABOUTME: Exports ContentFS for use by the unified server without runtime filesystem paths.
package editor

import "embed"

//go:embed static/js/*.js static/css/*.css
var ContentFS embed.FS
