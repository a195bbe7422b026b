// Package stations maps what users type to the station names the Renfe
// website expects. Matching is exact after folding case and accents; there is
// no fuzzy or language-aware guessing.
package stations
