package content

import "strings"

// IsYouTube reports whether url points to a YouTube video.
func IsYouTube(url string) bool {
	return strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be")
}

// EmbedURL turns YouTube watch and short links into embeddable player links.
// Other urls are returned as is.
func EmbedURL(url string) string {
	if strings.Contains(url, "youtube.com/watch?v=") {
		return strings.Replace(url, "watch?v=", "embed/", 1)
	}
	if strings.Contains(url, "youtu.be/") {
		return strings.Replace(url, "youtu.be/", "youtube.com/embed/", 1)
	}
	return url
}
