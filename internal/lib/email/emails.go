package email

// Invitation describes one participant invited to one meeting.
type Invitation struct {
	To              string
	ParticipantName string
	MeetingTitle    string
	MeetingDateTime string
	MeetingLocation string
	MeetingDetails  string
}

// SendMeetingInvitation tells a participant they were added to a meeting.
func (c *Client) SendMeetingInvitation(inv Invitation) error {
	data := map[string]string{
		"ParticipantName": inv.ParticipantName,
		"MeetingTitle":    inv.MeetingTitle,
		"MeetingDateTime": inv.MeetingDateTime,
		"MeetingLocation": inv.MeetingLocation,
		"MeetingDetails":  inv.MeetingDetails,
	}

	return c.SendEmail(
		inv.To,
		"Invitation: "+inv.MeetingTitle,
		TemplateMeetingInvitation,
		data,
	)
}
