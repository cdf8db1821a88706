package email

// PreviewData holds sample values for every template, keyed by template name.
var PreviewData = map[Template]map[string]string{
	TemplateMeetingInvitation: {
		"ParticipantName": "John Doe",
		"MeetingTitle":    "Quarterly planning",
		"MeetingDateTime": "2030-05-01 09:30",
		"MeetingLocation": "Room 4",
		"MeetingDetails":  "Bring the roadmap draft.",
	},
}
