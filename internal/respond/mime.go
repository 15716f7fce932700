package respond

import "strings"

// contentTypes is the fixed extension table. An empty value means the
// extension is known but deliberately sent without a Content-Type.
var contentTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".htm":  "text/html; charset=utf-8",
	".js":   "text/javascript; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".json": "application/json; charset=utf-8",
	".png":  "image/png",
	".svg":  "image/svg+xml",
	".ttf":  "font/ttf",
	".txt":  "text/plain; charset=utf-8",
	".wasm": "application/wasm",
	".map":  "",
}

// ContentType returns the Content-Type for ext (with the leading dot).
// known is false when the extension is not in the table.
func ContentType(ext string) (ct string, known bool) {
	ct, known = contentTypes[strings.ToLower(ext)]
	return ct, known
}
