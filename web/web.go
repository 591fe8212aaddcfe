// Package web 内嵌的模板与静态资源
package web

import "embed"

// FS templates/ 与 static/ 目录
//
//go:embed templates static
var FS embed.FS
