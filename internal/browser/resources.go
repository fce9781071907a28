// CLAUDE:SUMMARY Blocks configured resource types (images, fonts, media, stylesheets) on Rod pages before navigation.
package browser

import (
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// resourceAliases maps CDP resource types to config names.
var resourceAliases = map[string]string{
	"image":      "images",
	"font":       "fonts",
	"media":      "media",
	"stylesheet": "stylesheets",
}

// applyResourceBlocking fails every request whose resource type is listed.
// Blocking stylesheets changes computed style, so captures taken with it
// report unstyled layout. The returned router runs until stopped; the page
// closing does not end it.
func applyResourceBlocking(page *rod.Page, types []string) (*rod.HijackRouter, error) {
	blockSet := make(map[string]bool, len(types))
	for _, t := range types {
		blockSet[strings.ToLower(t)] = true
	}

	router := page.HijackRequests()
	err := router.Add("*", "", func(h *rod.Hijack) {
		if shouldBlock(blockSet, string(h.Request.Type())) {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		h.ContinueRequest(&proto.FetchContinueRequest{})
	})
	if err != nil {
		_ = router.Stop()
		return nil, fmt.Errorf("browser: hijack: %w", err)
	}
	go router.Run()
	return router, nil
}

func shouldBlock(blockSet map[string]bool, resType string) bool {
	lower := strings.ToLower(resType)
	if alias, ok := resourceAliases[lower]; ok {
		return blockSet[alias]
	}
	return blockSet[lower]
}
