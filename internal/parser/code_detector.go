package parser

import (
	"regexp"
	"strings"
)

// DetectedCode represents a detected verification code
type DetectedCode struct {
	Type  string // "otp", "verification", "code", "security"
	Value string
}

// CodeDetector detects verification codes in text
type CodeDetector struct {
	patterns []*codePattern
}

type codePattern struct {
	Type  string
	Regex *regexp.Regexp
}

// NewCodeDetector creates a new code detector
func NewCodeDetector() *CodeDetector {
	return &CodeDetector{
		patterns: []*codePattern{
			// OTP codes with keyword (4-8 digits)
			{
				Type:  "otp",
				Regex: regexp.MustCompile(`(?i)(?:code|otp|pin|passcode)[\s:\-]*(\d{4,8})\b`),
			},
			{
				Type:  "verification",
				Regex: regexp.MustCompile(`(?i)(?:verification|verify|confirm|activation)[\s\w]*?[\s:\-]+(\d{4,8})\b`),
			},
			// Standalone numeric codes (4-8 digits on their own line)
			{
				Type:  "code",
				Regex: regexp.MustCompile(`(?m)^\s*(\d{4,8})\s*$`),
			},
			{
				Type:  "security",
				Regex: regexp.MustCompile(`(?i)(?:security|2fa|two.factor)[\s\w]*?[\s:\-]+(\d{4,8})\b`),
			},
		},
	}
}

// DetectCodes finds all verification codes in text
func (d *CodeDetector) DetectCodes(text string) []DetectedCode {
	var codes []DetectedCode
	seen := make(map[string]bool)

	for _, pattern := range d.patterns {
		matches := pattern.Regex.FindAllStringSubmatch(text, -1)
		for _, match := range matches {
			if len(match) < 2 {
				continue
			}
			code := strings.TrimSpace(match[1])
			if seen[code] || len(code) < 4 {
				continue
			}
			seen[code] = true
			codes = append(codes, DetectedCode{
				Type:  pattern.Type,
				Value: code,
			})
		}
	}

	return codes
}
