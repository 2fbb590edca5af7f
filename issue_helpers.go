package xmlskema

// IssueAt creates an Issue at the given path with provided code, message and params map.
// Rules with many parameters read better with it than with PathRef.Issue.
func IssueAt(p PathRef, code, msg string, params map[string]any) Issue {
	return Issue{Path: p.Pointer(), Code: code, Message: msg, Params: params}
}
