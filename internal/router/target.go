package router

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bazaar-it/bazaar-sub004/internal/types"
)

var sceneNumberPattern = regexp.MustCompile(`scene\s+(\d+)|(\d+)(?:st|nd|rd|th)\s+scene`)

var ordinalWords = map[string]int{
	"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
	"sixth": 6, "seventh": 7, "eighth": 8, "ninth": 9, "tenth": 10,
}

// resolveSceneRef maps an explicit scene reference in the utterance to a
// scene ID. Numbering is 1-based and follows the order index, which is
// how the scenes are presented to the user. Pronoun references ("it",
// "that scene") resolve only when the project has exactly one scene;
// with more, selection is genuinely ambiguous and stays unresolved.
func resolveSceneRef(utterance string, scenes []types.Scene) (string, bool) {
	if len(scenes) == 0 {
		return "", false
	}
	lower := strings.ToLower(utterance)

	if m := sceneNumberPattern.FindStringSubmatch(lower); m != nil {
		digits := m[1]
		if digits == "" {
			digits = m[2]
		}
		n, err := strconv.Atoi(digits)
		if err == nil {
			return sceneByNumber(scenes, n)
		}
	}

	for word, n := range ordinalWords {
		if strings.Contains(lower, word+" scene") || strings.Contains(lower, word+" one") {
			return sceneByNumber(scenes, n)
		}
	}

	if strings.Contains(lower, "last scene") || strings.Contains(lower, "final scene") ||
		strings.Contains(lower, "last one") {
		return scenes[len(scenes)-1].ID, true
	}

	// Name match: "the pricing scene" against a scene named "Pricing".
	for _, s := range scenes {
		name := strings.ToLower(strings.TrimSpace(s.Name))
		if name != "" && strings.Contains(lower, name) {
			return s.ID, true
		}
	}

	if len(scenes) == 1 && (strings.Contains(lower, " it") || strings.HasPrefix(lower, "it ") ||
		strings.Contains(lower, "that scene") || strings.Contains(lower, "the scene")) {
		return scenes[0].ID, true
	}

	return "", false
}

func sceneByNumber(scenes []types.Scene, n int) (string, bool) {
	for _, s := range scenes {
		if s.Order == n-1 {
			return s.ID, true
		}
	}
	return "", false
}
