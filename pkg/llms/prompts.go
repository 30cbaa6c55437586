package llms

const topicPromptTemplate = `
The following text snippets are representative members of one topical cluster of a user's saved content.
Respond with a short topic label for the cluster: 2 to 5 words, no quotes, no trailing punctuation, nothing else.

Cluster size: {{.MemberCount}} members.
{{if .KeywordsJoined}}Previously extracted keywords: {{.KeywordsJoined}}{{end}}

Snippets:
{{.SnippetsJoined}}

Topic label:
`

const keywordsPromptTemplate = `
The following text snippets are representative members of one topical cluster of a user's saved content.
Respond with at most {{.MaxKeywords}} lowercase keywords that characterize the cluster, comma separated, nothing else.

Snippets:
{{.SnippetsJoined}}

Keywords:
`

const summaryPromptTemplate = `
The following text snippets are representative members of one topical cluster of a user's saved content.
Respond with a one or two sentence summary of what the cluster is about. Do not mention clusters or snippets.

Cluster size: {{.MemberCount}} members.

Snippets:
{{.SnippetsJoined}}

Summary:
`

type topicPromptData struct {
	MemberCount    int
	KeywordsJoined string
	SnippetsJoined string
}

type keywordsPromptData struct {
	MaxKeywords    int
	SnippetsJoined string
}

type summaryPromptData struct {
	MemberCount    int
	SnippetsJoined string
}
