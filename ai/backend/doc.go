// Package backend talks to a keyword/rank HTTP service.
//
// The service exposes two JSON endpoints:
//
//	POST {endpoint}/api/get-keywords  {"query": "..."}
//	    -> {"objectKeywords": [...], "contextKeywords": [...]}
//
//	POST {endpoint}/api/rank-results  {"objectKeywords": [...], "contextKeywords": [...], "candidates": [...]}
//	    -> {"result": [{"htsno", "description", "score", "explanation"}, ...]}
//
// Responses are decoded with ai.ParseKeywords and ai.ParseRanking, so wrapped
// or string-encoded payloads are accepted too. A non-2xx status is returned as
// a *StatusError.
package backend
