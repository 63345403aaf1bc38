package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"order17vat/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	FlashSuccess = response.NotifySuccess
	FlashError   = response.NotifyError

	flashCookie = "order17vat_flash"
)

// Flash is a one-shot notification carried across a redirect
type Flash = response.Notification

// SetFlash queues a notification for the next request of this client
func SetFlash(c *gin.Context, kind, message string) {
	flashes := append(readFlashes(c), Flash{Type: kind, Message: message})
	raw, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString(raw), 60, "/", "", false, true)
}

// ConsumeFlash returns the queued notifications and clears them
func ConsumeFlash(c *gin.Context) []Flash {
	flashes := readFlashes(c)
	if len(flashes) > 0 {
		c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	}
	return flashes
}

func readFlashes(c *gin.Context) []Flash {
	value, err := c.Cookie(flashCookie)
	if err != nil || value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(raw, &flashes); err != nil {
		return nil
	}
	return flashes
}
