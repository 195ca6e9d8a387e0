package spotlight

import (
	"fmt"

	"github.com/trueloving/deskfolio/internal/content"
	"github.com/trueloving/deskfolio/internal/i18n"
)

// BuildItems lists every launcher entry for a portfolio: quick actions and
// links, then projects, experience, education and skills.
func BuildItems(p *content.Portfolio, locale string) []Item {
	t := func(key string) string { return i18n.T(locale, key) }
	cat := func(group string) string { return t("spotlight.categories." + group) }

	actions := cat(GroupActions)
	links := cat(GroupLinks)

	items := []Item{
		{ID: "action:contact", Title: t("spotlight.actions.openContactForm"), Subtitle: t("spotlight.actions.openContactFormSubtitle"), Category: actions, Group: GroupActions, Action: Action{Kind: ActionOpenContact}},
		{ID: "action:terminal", Title: t("spotlight.actions.openTerminal"), Subtitle: t("spotlight.actions.openTerminalSubtitle"), Category: actions, Group: GroupActions, Action: Action{Kind: ActionOpenApp, Target: "terminal"}},
		{ID: "action:notes-experience", Title: t("spotlight.actions.openNotesExperience"), Subtitle: t("spotlight.actions.openNotesExperienceSubtitle"), Category: actions, Group: GroupActions, Action: Action{Kind: ActionOpenNotes, Target: "experience"}},
		{ID: "action:notes-education", Title: t("spotlight.actions.openNotesEducation"), Subtitle: t("spotlight.actions.openNotesEducationSubtitle"), Category: actions, Group: GroupActions, Action: Action{Kind: ActionOpenNotes, Target: "education"}},
		{ID: "action:notes", Title: t("spotlight.actions.openNotes"), Subtitle: t("spotlight.actions.openNotesSubtitle"), Category: actions, Group: GroupActions, Action: Action{Kind: ActionOpenApp, Target: "notes"}},
		{ID: "action:close-all", Title: t("spotlight.actions.closeAllWindows"), Subtitle: t("spotlight.actions.closeAllWindowsSubtitle"), Category: actions, Group: GroupActions, Action: Action{Kind: ActionCloseAll}},
		{ID: "action:shuffle-bg", Title: t("spotlight.actions.shuffleBackground"), Subtitle: t("spotlight.actions.shuffleBackgroundSubtitle"), Category: actions, Group: GroupActions, Action: Action{Kind: ActionShuffleBackground}},
		{ID: "action:copy-email", Title: t("spotlight.actions.copyEmail"), Subtitle: p.Contact.Email, Category: actions, Group: GroupActions, Action: Action{Kind: ActionCopy, Target: p.Contact.Email}},
	}
	if p.Contact.Phone != "" {
		items = append(items, Item{ID: "action:copy-phone", Title: t("spotlight.actions.copyPhone"), Subtitle: p.Contact.Phone, Category: actions, Group: GroupActions, Action: Action{Kind: ActionCopy, Target: p.Contact.Phone}})
	}
	items = append(items,
		Item{ID: "action:email-compose", Title: t("spotlight.actions.composeEmail"), Subtitle: p.Contact.Email, Category: actions, Group: GroupActions, Action: Action{Kind: ActionOpenURL, Target: "mailto:" + p.Contact.Email}},
		Item{ID: "action:open-website", Title: t("spotlight.actions.openWebsite"), Subtitle: p.Profile.Website, Category: actions, Group: GroupActions, Action: Action{Kind: ActionOpenURL, Target: p.Profile.Website}},
	)
	if p.Contact.Calendly != "" {
		items = append(items, Item{ID: "action:calendly", Title: t("spotlight.actions.openCalendly"), Subtitle: p.Contact.Calendly, Category: actions, Group: GroupActions, Action: Action{Kind: ActionOpenURL, Target: p.Contact.Calendly}})
	}
	items = append(items,
		Item{ID: "action:github", Title: t("spotlight.actions.openGitHub"), Subtitle: t("spotlight.actions.openGitHubSubtitle"), Category: actions, Group: GroupActions, Action: Action{Kind: ActionOpenApp, Target: "github"}},
		Item{ID: "action:resume", Title: t("spotlight.actions.openResume"), Subtitle: t("spotlight.actions.openResumeSubtitle"), Category: actions, Group: GroupActions, Action: Action{Kind: ActionOpenApp, Target: "resume"}},
		Item{ID: "action:tutorial", Title: t("spotlight.actions.showTutorial"), Subtitle: t("spotlight.actions.showTutorialSubtitle"), Category: actions, Group: GroupActions, Action: Action{Kind: ActionShowTutorial}},
		Item{ID: "link:github", Title: t("spotlight.actions.openGitHubProfile"), Subtitle: p.Social.GitHub, Category: links, Group: GroupLinks, Action: Action{Kind: ActionOpenURL, Target: p.Social.GitHub}},
	)
	if p.Social.LinkedIn != "" {
		items = append(items, Item{ID: "link:linkedin", Title: t("spotlight.actions.openLinkedIn"), Subtitle: p.Social.LinkedIn, Category: links, Group: GroupLinks, Action: Action{Kind: ActionOpenURL, Target: p.Social.LinkedIn}})
	}
	items = append(items, Item{ID: "link:resume", Title: t("spotlight.actions.openResumeURL"), Subtitle: p.Resume.URL, Category: links, Group: GroupLinks, Action: Action{Kind: ActionOpenURL, Target: p.Resume.URL}})

	for _, proj := range p.Projects {
		kw := append([]string{proj.RepoURL, proj.LiveURL}, proj.TechStack...)
		items = append(items, Item{
			ID:       "project:" + proj.ID,
			Title:    proj.Title,
			Subtitle: proj.Description,
			Category: cat(GroupProjects),
			Group:    GroupProjects,
			Keywords: kw,
			Action:   Action{Kind: ActionOpenProject, Target: proj.ID},
		})
	}

	for i, e := range p.Experience {
		items = append(items, Item{
			ID:       fmt.Sprintf("experience:%d", i),
			Title:    e.Title,
			Subtitle: e.Company + " • " + e.Period,
			Category: cat(GroupExperience),
			Group:    GroupExperience,
			Keywords: append([]string{e.Company, e.Location}, e.Technologies...),
			Action:   Action{Kind: ActionOpenNotes, Target: "experience"},
		})
	}

	for i, ed := range p.Education {
		items = append(items, Item{
			ID:       fmt.Sprintf("education:%d", i),
			Title:    ed.Degree,
			Subtitle: ed.Institution + " • " + ed.Year,
			Category: cat(GroupEducation),
			Group:    GroupEducation,
			Keywords: []string{ed.Institution, ed.Location, ed.Major},
			Action:   Action{Kind: ActionOpenNotes, Target: "education"},
		})
	}

	for i, name := range p.SkillNames() {
		items = append(items, Item{
			ID:       fmt.Sprintf("skill:%d", i),
			Title:    name,
			Category: cat(GroupSkills),
			Group:    GroupSkills,
			Action:   Action{Kind: ActionOpenNotes, Target: "skills"},
		})
	}

	return items
}
