package engine

// SeedEntry is one question/context/response triple from the built-in
// knowledge set the corpus is bootstrapped from on every start.
type SeedEntry struct {
	Index       int
	UserMessage string
	Context     string
	Response    string
}

// DefaultSeed returns the built-in knowledge entries. The corpus has no
// persistence, so these are re-chunked and re-indexed each run.
func DefaultSeed() []SeedEntry {
	return []SeedEntry{
		{
			Index:       0,
			UserMessage: "How do I reset my password and update my profile?",
			Context:     `To reset your password, go to the login page and click "Forgot Password". Enter your email to receive reset instructions. To update your profile, log into your account and navigate to Settings or Profile section where you can edit your information.`,
			Response:    `You can reset your password by clicking "Forgot Password" on the login page and following the email instructions. To update your profile, access the Settings section after logging in.`,
		},
		{
			Index:       1,
			UserMessage: "What is Argilla and how does it work?",
			Context:     `Argilla is a comprehensive Software as a Service (SaaS) solution for data labeling and curation. The service is designed to meet the needs of businesses seeking a reliable, secure, and user-friendly platform for data management. Argilla provides tools for annotation, quality control, and data workflow management.`,
			Response:    `Argilla is a SaaS platform for data labeling and curation that helps businesses manage their data annotation workflows efficiently.`,
		},
		{
			Index:       2,
			UserMessage: "How can I contact customer support?",
			Context:     `Customer support can be reached through multiple channels: email support is available 24/7, live chat during business hours (9 AM - 6 PM), and phone support for urgent issues. You can also submit tickets through the help desk system.`,
			Response:    `You can contact customer support via email (24/7), live chat (business hours), phone for urgent issues, or through our help desk ticketing system.`,
		},
		{
			Index:       3,
			UserMessage: "What are the backup and recovery procedures?",
			Context:     `Argilla Cloud provides comprehensive backup and recovery protocol with daily backups. The service has a recovery point objective (RPO) of 24 hours and recovery time objective (RTO) designed to minimize data loss and ensure swift recovery in case of disruption.`,
			Response:    `We perform daily backups with 24-hour RPO and have established RTO procedures to ensure quick data recovery in case of any service disruption.`,
		},
		{
			Index:       4,
			UserMessage: "How do I manage user access and permissions?",
			Context:     `User access management is handled through the administrator panel where you can invite team members, assign roles, and set permissions. The client administrator has full control over their teams access and can manage workspace settings efficiently.`,
			Response:    `Access the administrator panel to invite users, assign roles, and manage permissions. Client administrators have full control over team access and workspace management.`,
		},
	}
}
