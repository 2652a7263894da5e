package finder

import (
	"fmt"

	"github.com/packagepal/gateway/pkg/llm"
)

const instruction = "You recommend software packages. Answer with a JSON array only."

// suggestionSchema is the declared shape of upstream output.
var suggestionSchema = &llm.Schema{
	Type: llm.TypeArray,
	Items: &llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"name":        {Type: llm.TypeString, Description: "Package name as published in the registry."},
			"description": {Type: llm.TypeString, Description: "One sentence on the package's primary purpose."},
			"url":         {Type: llm.TypeString, Description: "Homepage or registry URL."},
		},
		Required: []string{"name", "description"},
	},
}

func buildPrompt(r LookupRequest, limit int) string {
	return fmt.Sprintf(`I am looking for packages in %[1]s that are similar in functionality to the %[2]s package named %[3]q.
Please provide a list of up to %[4]d such packages, ordered from most relevant to least relevant.
For each package, provide its name and a brief one-sentence description of its primary purpose, and its homepage URL if known.
Format the output as a JSON array of objects with "name" (string), "description" (string) and optional "url" (string) keys.
If you cannot find any relevant packages or are unsure, return an empty JSON array [].`,
		r.TargetLang, r.SourceLang, r.SourcePackage, limit)
}

func (s *Service) upstreamRequest(r LookupRequest) llm.Request {
	return llm.Request{
		Instruction: instruction,
		Prompt:      buildPrompt(r, s.cfg.MaxSuggestions),
		Temperature: s.cfg.Temperature,
		Schema:      suggestionSchema,
	}
}
