package session

import "strings"

// Profile describes a dashboard user. It is what the front-end renders in
// the header and profile modal after login.
type Profile struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	Department     string `json:"department"`
	Specialization string `json:"specialization"`
	Email          string `json:"email"`
}

// Credentials pairs a plaintext password with its profile. This is a
// prototype stand-in for a real identity provider; callers only ever see
// the Manager contract, so swapping in hashed credentials or token auth
// later does not touch them.
type Credentials struct {
	Password string
	Profile  Profile
}

// CredentialStore is a fixed username -> credentials mapping. Lookups are
// case-insensitive on the username; the store is immutable after
// construction.
type CredentialStore struct {
	byUsername map[string]Credentials
}

// NewCredentialStore builds a store from the given mapping. Usernames are
// normalized to lower case; when two entries collide after normalization
// the last one wins.
func NewCredentialStore(creds map[string]Credentials) *CredentialStore {
	byUsername := make(map[string]Credentials, len(creds))
	for username, c := range creds {
		byUsername[strings.ToLower(username)] = c
	}
	return &CredentialStore{byUsername: byUsername}
}

// Lookup returns the credentials for a username, normalizing case first.
func (s *CredentialStore) Lookup(username string) (Credentials, bool) {
	c, ok := s.byUsername[strings.ToLower(username)]
	return c, ok
}

// DefaultCredentials returns the seeded demo accounts for the chronic care
// dashboard.
func DefaultCredentials() map[string]Credentials {
	return map[string]Credentials{
		"sarah.chen": {
			Password: "WellDoc2025!",
			Profile: Profile{
				ID:             "1",
				Username:       "sarah.chen",
				Name:           "Dr. Sarah Chen",
				Role:           "Chief Medical Officer",
				Department:     "Internal Medicine",
				Specialization: "Chronic Care Management",
				Email:          "sarah.chen@welldoc.com",
			},
		},
		"michael.rodriguez": {
			Password: "Cardio123!",
			Profile: Profile{
				ID:             "2",
				Username:       "michael.rodriguez",
				Name:           "Dr. Michael Rodriguez",
				Role:           "Senior Cardiologist",
				Department:     "Cardiology",
				Specialization: "Heart Failure Management",
				Email:          "michael.rodriguez@welldoc.com",
			},
		},
		"emily.johnson": {
			Password: "Endo456!",
			Profile: Profile{
				ID:             "3",
				Username:       "emily.johnson",
				Name:           "Dr. Emily Johnson",
				Role:           "Endocrinologist",
				Department:     "Endocrinology",
				Specialization: "Diabetes & Metabolic Disorders",
				Email:          "emily.johnson@welldoc.com",
			},
		},
		"lisa.thompson": {
			Password: "Nurse789!",
			Profile: Profile{
				ID:             "4",
				Username:       "lisa.thompson",
				Name:           "Lisa Thompson, RN",
				Role:           "Registered Nurse",
				Department:     "Chronic Care Unit",
				Specialization: "Patient Monitoring",
				Email:          "lisa.thompson@welldoc.com",
			},
		},
		"james.wilson": {
			Password: "Coord101!",
			Profile: Profile{
				ID:             "5",
				Username:       "james.wilson",
				Name:           "James Wilson",
				Role:           "Clinical Coordinator",
				Department:     "Care Management",
				Specialization: "Risk Assessment",
				Email:          "james.wilson@welldoc.com",
			},
		},
		"admin": {
			Password: "AdminWell2025!",
			Profile: Profile{
				ID:             "6",
				Username:       "admin",
				Name:           "System Administrator",
				Role:           "System Administrator",
				Department:     "IT Operations",
				Specialization: "Full System Access",
				Email:          "admin@welldoc.com",
			},
		},
	}
}
