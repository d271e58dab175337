package diagnostic

import "fmt"

// Synthesis observation lines. A missing key yields no line.

var avoidanceLines = map[AvoidanceMechanism]string{
	AvoidanceNoForum:       "The absence of a safe forum means the real conversation has never had a place to happen.",
	AvoidancePredetermined: "When outcomes feel predetermined, filtered information reaches leadership and the real problem stays hidden.",
	AvoidanceCostTooHigh:   "The perceived cost of the conversation is being weighed against the actual cost of avoiding it. The math does not favor avoidance.",
}

var personnelRiskLines = map[PersonnelRisk]string{
	RiskLost:     "This organization has already lost someone because of this dynamic. That is a confirmed cost, not a projection.",
	RiskYes:      "There is someone in the room this situation is making it harder to keep.",
	RiskPossibly: "There are early signs that this situation is affecting retention.",
}

var blockageLines = map[ResolutionBlockage]string{
	BlockageAttempted: "Something is actively preventing a decision the organization knows needs to happen. That blockage is its own compounding liability.",
	BlockageKnown:     "The organization knows what needs to happen and has not been able to act on it. The cost of that gap is included in this assessment.",
	BlockageSuspected: "There may be a personnel decision being avoided. Whether or not it is named, the organization is carrying its weight.",
}

var priorAttemptLines = map[PriorAttempt]string{
	PriorExternal:     "A previous external engagement did not hold, which means the resolution needs to go somewhere the last one did not reach.",
	PriorConversation: "A prior conversation addressed this without producing change, a signal that the source has not been reached yet.",
	PriorUnclear:      "It is unclear whether previous efforts addressed the right problem, which is itself a finding.",
}

const (
	fallbackFriction = "an unlocated source"
	fallbackTenure   = "an undisclosed period"
)

// inferenceRule is one conjunctive predicate over the answers and the state.
type inferenceRule struct {
	name  string
	match func(c narrativeContext) bool
	text  string
}

var inferenceRules = []inferenceRule{
	{
		name: "external-then-attempted",
		match: func(c narrativeContext) bool {
			return c.in.PriorAttempt == PriorExternal && c.in.ResolutionBlockage == BlockageAttempted
		},
		text: "Two attempts at resolution and something keeps getting in the way. In my experience, that pattern almost always means the blockage has institutional protection: someone or something with enough influence to survive the intervention. The next engagement needs to reach that layer directly.",
	},
	{
		name: "external-then-known",
		match: func(c narrativeContext) bool {
			return c.in.PriorAttempt == PriorExternal && c.in.ResolutionBlockage == BlockageKnown
		},
		text: "A previous external engagement did not produce lasting change, and there is a decision the organization knows needs to happen but has not. Those two facts are usually related. The prior intervention likely addressed the visible dynamic without reaching the source of the blockage.",
	},
	{
		name: "conversation-cross-functional",
		match: func(c narrativeContext) bool {
			return c.in.PriorAttempt == PriorConversation && c.in.FrictionLocation == FrictionCrossFunctional
		},
		text: "Cross-functional friction that survives a direct conversation is almost never a communication problem. If the conversation happened and nothing changed, the friction is structural. It lives in how the organization is designed, not in how the people in it are talking to each other.",
	},
	{
		name: "conversation-within-leadership",
		match: func(c narrativeContext) bool {
			return c.in.PriorAttempt == PriorConversation && c.in.FrictionLocation == FrictionWithinLeadership
		},
		text: "A leadership team conversation that produced no lasting change usually means the conversation did not include the person who most needed to be in it, or that person was in it and the dynamic made honest engagement impossible. The source is still in place.",
	},
	{
		name: "leadership-predetermined-external",
		match: func(c narrativeContext) bool {
			return c.in.FrictionLocation == FrictionWithinLeadership &&
				c.in.AvoidanceMechanism == AvoidancePredetermined &&
				c.in.PriorAttempt == PriorExternal
		},
		text: "The previous engagement did not hold because predetermined outcomes in a leadership team almost always trace back to a single person whose position makes the outcome feel inevitable before the conversation starts. Until that dynamic is named directly, any intervention will work around it rather than through it.",
	},
	{
		name: "leadership-no-forum-known",
		match: func(c narrativeContext) bool {
			return c.in.FrictionLocation == FrictionWithinLeadership &&
				c.in.AvoidanceMechanism == AvoidanceNoForum &&
				c.in.ResolutionBlockage == BlockageKnown
		},
		text: "The organization knows what needs to happen and has built, probably without deciding to, a culture that makes it impossible to say so out loud. That is not an accident and it is not a coincidence. The absence of a forum and the presence of an unmade decision are the same problem from two different angles.",
	},
	{
		name: "leadership-legacy-long-tenure",
		match: func(c narrativeContext) bool {
			return c.in.FrictionLocation == FrictionWithinLeadership &&
				c.in.OrgStage == StageLegacy &&
				c.in.LeadershipTenure == TenureSevenPlus
		},
		text: "When leadership friction has been present for seven-plus years in a legacy organization with no forum to surface it, the patterns have usually been in place longer than anyone will admit out loud. The people who built them are still in the room. That is not an obstacle to resolution. It is the resolution. The conversation has to include them directly.",
	},
	{
		name: "embargo-known",
		match: func(c narrativeContext) bool {
			return c.state.Key == StateExecutiveEmbargo && c.in.ResolutionBlockage == BlockageKnown
		},
		text: "The leadership team is both the source of the friction and the reason the resolution cannot happen. That is a closed loop. The people with the authority to make the decision are the same people whose dynamic is preventing it. Getting out of it requires someone outside that loop to name it clearly enough that action becomes possible.",
	},
	{
		name: "stalled-known",
		match: func(c narrativeContext) bool {
			return c.state.Key == StateStalledHegemony && c.in.ResolutionBlockage == BlockageKnown
		},
		text: "Stalled projects and a known but unmade decision tend to protect each other. Every initiative nobody is willing to end is a smaller version of the same avoided conversation. Naming the decision usually frees the capital, and freeing the capital usually forces the decision.",
	},
	{
		name: "caffeine-first-look",
		match: func(c narrativeContext) bool {
			return c.state.Key == StateCaffeineCulture && c.in.PriorAttempt == PriorNone
		},
		text: "This organization has been moving fast enough that it has not stopped to name what it is actually running on. Speed is functioning as avoidance here, not deliberately but effectively. The cost has been accumulating in the background while the activity level made it easy not to look.",
	},
	{
		name: "hemorrhage-with-risk",
		match: func(c narrativeContext) bool {
			return c.state.Key == StateTalentHemorrhage &&
				(c.in.PersonnelRisk == RiskYes || c.in.PersonnelRisk == RiskLost)
		},
		text: "The institutional state and the personnel risk signal are confirming the same thing: this culture is already selecting against the people it most needs to keep. That is not a retention problem with a recruiting solution. It is an environment problem, and the people with the highest standards for how they want to work are the first ones to act on it.",
	},
	{
		name: "sabotage-first-look",
		match: func(c narrativeContext) bool {
			return c.state.Key == StateBrilliantSabotage && c.in.PriorAttempt == PriorNone
		},
		text: "High individual performance coexisting with collective dysfunction almost never resolves on its own, because the person at the center of it is also the person whose output makes it feel too costly to address. The longer it goes unnamed, the more entrenched the dynamic becomes and the more the organization shapes itself around accommodating it.",
	},
	{
		name: "analytical-predetermined",
		match: func(c narrativeContext) bool {
			return (c.in.Industry == IndustryConsulting || c.in.Industry == IndustryFinance) &&
				c.in.AvoidanceMechanism == AvoidancePredetermined
		},
		text: "In an organization that runs on analytical rigor, predetermined outcomes in leadership conversations are a specific kind of credibility problem. The analysis is real. The conclusion was decided before it started. The rigor is being used to justify a decision that was made on other grounds, and the people in the room know it.",
	},
	{
		name: "nonprofit-lost",
		match: func(c narrativeContext) bool {
			return c.in.Industry == IndustryNonprofit && c.in.PersonnelRisk == RiskLost
		},
		text: "Losing someone to organizational dysfunction in a mission-driven organization carries a specific cost that does not appear in any financial calculation. The people who join nonprofits have already made a values-based trade. When the environment fails them, they do not just leave the organization. They often leave the sector. The mission did not protect the person serving it.",
	},
	{
		name: "media-leadership-no-forum",
		match: func(c narrativeContext) bool {
			return c.in.Industry == IndustryMedia &&
				c.in.FrictionLocation == FrictionWithinLeadership &&
				c.in.AvoidanceMechanism == AvoidanceNoForum
		},
		text: "Creative cultures are often psychologically safer for disagreement about the work than for disagreement about the people doing it. The same environment that produces passionate creative debate can be completely silent about the leadership dynamic making that debate harder. The two cultures coexist in the same room and almost never interact.",
	},
	{
		name: "tech-startup-external",
		match: func(c narrativeContext) bool {
			return c.in.Industry == IndustryTech && c.in.OrgStage == StageStartup && c.in.PriorAttempt == PriorExternal
		},
		text: "An external engagement that did not hold in a startup usually means the founding dynamic reasserted itself as soon as the external presence left. That dynamic is the product of the founding relationships. It predates the organization and it will outlast any intervention that does not reach it directly.",
	},
}

// rationaleRule selects a recommendation paragraph within one tier.
type rationaleRule struct {
	match func(c narrativeContext) bool
	text  func(c narrativeContext) string
}

func static(s string) func(narrativeContext) string {
	return func(narrativeContext) string { return s }
}

var rationaleRules = map[TierKey][]rationaleRule{
	TierSafeHarbor: {
		{
			func(c narrativeContext) bool {
				return c.in.PriorAttempt == PriorExternal && c.in.ResolutionBlockage == BlockageAttempted
			},
			static("Safe Harbor is the right entry point here because two prior attempts at resolution have not held, which tells us the source of the blockage has institutional protection. What is needed is not another structured engagement. It is a sustained, confidential relationship that can operate outside the dynamics that have protected the problem so far."),
		},
		{
			func(c narrativeContext) bool { return c.in.LeadershipTenure == TenureUnderOne },
			static("Safe Harbor is the right entry point because you are navigating a problem you inherited, not one you created. The friction predates your tenure and the people who built it are probably still in the room. What you need is not an intervention. It is a confidential relationship with someone who can help you see the landscape clearly and move through it without the constraints that come with a formal engagement."),
		},
		{
			func(c narrativeContext) bool {
				return c.in.FrictionLocation == FrictionWithinLeadership && c.in.AvoidanceMechanism == AvoidancePredetermined
			},
			static("Safe Harbor is the right entry point because predetermined outcomes in a leadership team almost always trace back to a single dynamic that a structured intervention can work around but rarely reaches directly. What is needed is the kind of relationship where that dynamic can be named without consequence and addressed without the political weight that comes with a formal process."),
		},
		{
			func(c narrativeContext) bool {
				return c.in.PersonnelRisk == RiskLost || c.in.ResolutionBlockage == BlockageAttempted
			},
			static("Safe Harbor is the right entry point because this situation has already produced consequences, and something is actively preventing the resolution the organization knows it needs. A structured engagement alone will not reach that. What is needed is a sustained, confidential presence that can operate where the formal process cannot."),
		},
	},
	TierIntervention: {
		{
			func(c narrativeContext) bool {
				return c.in.PersonnelRisk == RiskYes && c.in.ResolutionBlockage == BlockageKnown
			},
			func(c narrativeContext) string {
				return fmt.Sprintf("Based on what this diagnostic describes, %s in a %s organization with someone at risk of leaving and a decision the organization knows needs to happen, The Intervention is the right entry point. The situation is already in motion. What is needed is not a roadmap for addressing it. It is someone in the room to move it through.",
					lower(c.state.Label), industryLabel(c.in.Industry))
			},
		},
		{
			func(c narrativeContext) bool { return c.in.PriorAttempt == PriorConversation },
			static("The Intervention is the right entry point because a prior conversation addressed this without producing change, which means the source has not been reached yet. The Roadmap assumes a level of organizational readiness to act on its findings that this profile suggests is not fully in place. The Intervention goes where the conversation did not."),
		},
		{
			func(c narrativeContext) bool { return c.in.PriorAttempt == PriorExternal },
			static("A previous external engagement did not hold, which tells us the resolution needs to go somewhere the last one did not reach. The Intervention is the right entry point because it does not produce a plan for your organization to execute. It produces the resolution directly, in the room, with the people who need to be part of it."),
		},
		{
			func(c narrativeContext) bool {
				return c.in.FrictionLocation == FrictionWithinLeadership && c.in.PersonnelRisk != "" && c.in.PersonnelRisk != RiskNone
			},
			static("The Intervention is the right entry point because the friction is inside the leadership team and there is already a personnel consequence in play. At that combination, a diagnostic and roadmap phase delays the resolution the organization actually needs. We come in, we address it directly, and you leave with the thing done, not a plan to do it."),
		},
		{
			func(c narrativeContext) bool {
				return c.in.OrgStage == StageLegacy && c.in.LeadershipTenure == TenureSevenPlus
			},
			static("The Intervention is the right entry point because what this profile describes has been in place long enough that a roadmap phase would spend its time documenting what everyone already knows. The patterns are established, the cost is confirmed, and the organization needs someone to move it, not map it."),
		},
	},
	TierRoadmap: {
		{
			func(c narrativeContext) bool { return c.in.PriorAttempt == PriorNone },
			static("The Roadmap is the right entry point because this is the first structured look at what is happening and what it is costing. Before bringing someone in to resolve it, it is worth getting a precise diagnosis of where the friction lives, what is sustaining it, and what resolution actually needs to look like for this specific organization. The Roadmap produces that, along with a plan your team can execute on."),
		},
		{
			func(c narrativeContext) bool { return c.in.FrictionLocation == FrictionCrossFunctional },
			static("Cross-functional friction is the hardest kind to resolve without first mapping it precisely, because what looks like a relationship problem is almost always a structural one. The Roadmap is the right entry point because it will identify whether the friction is in the design of the organization or in the dynamics between the people in it. Those are different problems with different solutions, and the distinction is worth getting right before bringing someone in to address it."),
		},
		{
			func(c narrativeContext) bool { return c.in.FrictionLocation == FrictionTeam },
			static("The Roadmap is the right entry point because friction between leadership and the team almost always has a specific origin point that a diagnostic phase will surface. Going straight to intervention without that clarity risks addressing the symptom rather than the source. The Roadmap gives you the precise picture and a structured path forward."),
		},
	},
}

// rationaleFallbacks apply when no specific rule in the tier matched.
var rationaleFallbacks = map[TierKey]func(c narrativeContext) string{
	TierStability: static("The math has turned on this one. The diagnostic is showing a cost of inaction that exceeds what a structured intervention can address incrementally. What is needed now is not a plan. It is immediate stabilization. Stability Support is the right entry point because the window for a deliberate process has closed and what happens in the next few weeks will determine what is possible after that."),
	TierSafeHarbor: static("Safe Harbor is the right entry point because what this profile describes is not a situation that a time-bound structured engagement will resolve. The friction is too embedded and the stakes are too specific. What is needed is an indefinite confidential relationship, not a project with a deliverable at the end."),
	TierIntervention: func(c narrativeContext) string {
		return fmt.Sprintf("The Intervention is the right entry point based on this profile. The %s pattern combined with the behavioral signals this diagnostic has surfaced indicates that what is needed is resolution, not a plan for resolution. The Roadmap is the right entry point when the organization needs clarity on what to address. This organization already has that clarity. What it needs now is someone to address it.",
			c.state.Label)
	},
	TierRoadmap: static("The Roadmap is the right entry point based on this profile. The friction is real and the cost is confirmed, but the profile indicates this organization is in a position to address it deliberately rather than urgently. The Roadmap will name the source precisely, build the case internally, and give your team a structured path to resolution that does not require an external presence to execute."),
}
