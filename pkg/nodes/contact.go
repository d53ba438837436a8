package nodes

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildContactURL constructs the meshcore:// deep link that adds a device as
// a contact in the companion app. The public key is upper-cased and the name
// is percent-encoded; type=2 marks the contact as a repeater-style entry.
func BuildContactURL(name, publicKey string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
	return fmt.Sprintf("meshcore://contact/add?name=%s&public_key=%s&type=2", encoded, strings.ToUpper(publicKey))
}
