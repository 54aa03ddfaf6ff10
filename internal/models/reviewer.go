package models

// Reviewer is a privileged identity authorized to approve or reject
// applications. The set of reviewers is static configuration data.
type Reviewer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Decision is a reviewer's verdict on an applicant's last pending record.
type Decision struct {
	ApplicantID int64
	Nickname    string
	ReviewerID  int64
	Approve     bool
	// Ref is the reviewer's copy of the review notification; the acting
	// reviewer's feedback is applied to it in place.
	Ref MessageRef
}
