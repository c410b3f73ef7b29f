package config

import (
	"fmt"
	"os"
	"strings"
)

const githubURL = "https://github.com"

// ActionInfo is the GitHub Actions context of the run, when there is one.
type ActionInfo struct {
	Repository string
	SHA        string
	Ref        string
	Actor      string
	ActorID    string
	RunID      string
	EventName  string
}

// ActionInfoFromEnv reads the GITHUB_* variables of a workflow run.
func ActionInfoFromEnv() ActionInfo {
	return ActionInfo{
		Repository: os.Getenv("GITHUB_REPOSITORY"),
		SHA:        os.Getenv("GITHUB_SHA"),
		Ref:        os.Getenv("GITHUB_REF"),
		Actor:      os.Getenv("GITHUB_ACTOR"),
		ActorID:    os.Getenv("GITHUB_ACTOR_ID"),
		RunID:      os.Getenv("GITHUB_RUN_ID"),
		EventName:  os.Getenv("GITHUB_EVENT_NAME"),
	}
}

// Available reports whether the run happens inside a workflow.
func (a ActionInfo) Available() bool {
	return a.Repository != ""
}

func (a ActionInfo) CommitURL() string {
	return fmt.Sprintf("%s/%s/commit/%s", githubURL, a.Repository, a.SHA)
}

func (a ActionInfo) RunURL() string {
	return fmt.Sprintf("%s/%s/actions/runs/%s", githubURL, a.Repository, a.RunID)
}

// ReferenceLink points at the branch, tag or pull request of the run:
// "refs/pull/7/merge" becomes <repo>/pull/7/merge.
func (a ActionInfo) ReferenceLink() string {
	ref := a.Ref
	if i := strings.LastIndex(ref, "refs/"); i >= 0 {
		ref = ref[i+len("refs/"):]
	}
	return fmt.Sprintf("%s/%s/%s", githubURL, a.Repository, ref)
}

func (a ActionInfo) ActorAvatarURL() string {
	return fmt.Sprintf("https://avatars.githubusercontent.com/u/%s", a.ActorID)
}
