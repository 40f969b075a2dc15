package makerfetch

import (
	"mime"
	"net/url"
	"path"
	"strings"
	"unicode"
)

// FallbackFilename is used when neither the response nor the URL names the
// file.
const FallbackFilename = "model"

// Supported model file extensions.
const (
	Ext3MF = "3mf"
	ExtSTL = "stl"
	ExtOBJ = "obj"
)

// FilenameFromContentDisposition returns the filename parameter of a
// Content-Disposition header value, or "" when there is none.
func FilenameFromContentDisposition(header string) string {
	if strings.TrimSpace(header) == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return sanitizeFilename(params["filename"])
}

// FilenameFromURL returns the unescaped last path segment of raw.
func FilenameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return ""
	}
	base := path.Base(u.Path)
	if base == "/" || base == "." {
		return ""
	}
	if unescaped, err := url.PathUnescape(base); err == nil {
		base = unescaped
	}
	return sanitizeFilename(base)
}

// DeriveFilename picks a filename from the Content-Disposition header, then
// the final URL, then FallbackFilename.
func DeriveFilename(contentDisposition, finalURL string) string {
	if name := FilenameFromContentDisposition(contentDisposition); name != "" {
		return name
	}
	if name := FilenameFromURL(finalURL); name != "" {
		return name
	}
	return FallbackFilename
}

// ExtensionFromName returns the supported extension of name, lowercased,
// or "".
func ExtensionFromName(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	switch ext {
	case Ext3MF, ExtSTL, ExtOBJ:
		return ext
	}
	return ""
}

// ExtensionFromContentType maps a content type to a model extension by
// substring.
func ExtensionFromContentType(contentType string) string {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "3mf"), strings.Contains(ct, "zip"):
		return Ext3MF
	case strings.Contains(ct, "stl"), strings.Contains(ct, "sla"):
		return ExtSTL
	case strings.Contains(ct, "obj"):
		return ExtOBJ
	}
	return ""
}

// InferExtension tries the filename, then the final URL, then the content
// type. It returns "" when none of them identifies a model format.
func InferExtension(filename, finalURL, contentType string) string {
	if ext := ExtensionFromName(filename); ext != "" {
		return ext
	}
	if ext := ExtensionFromName(FilenameFromURL(finalURL)); ext != "" {
		return ext
	}
	return ExtensionFromContentType(contentType)
}

// EnsureExtension appends ext to filename unless it already ends with it.
func EnsureExtension(filename, ext string) string {
	if ext == "" || strings.EqualFold(path.Ext(filename), "."+ext) {
		return filename
	}
	return filename + "." + ext
}

// ResolvedFilename names the asset of a resolved model: the download URL
// basename when it carries a model extension, otherwise the title slug (or
// FallbackFilename) with a 3mf extension.
func ResolvedFilename(downloadURL, title string) string {
	if name := FilenameFromURL(downloadURL); ExtensionFromName(name) != "" {
		return name
	}
	base := slugify(title)
	if base == "" {
		base = FallbackFilename
	}
	return EnsureExtension(base, Ext3MF)
}

// sanitizeFilename drops directory components and control characters.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
