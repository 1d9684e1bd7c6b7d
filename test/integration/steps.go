package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm/clause"

	"github.com/perimetra/tmacl/pkg/groups"
	"github.com/perimetra/tmacl/pkg/model"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	parties      map[string]int64 // user login or team name -> party id
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:      tc,
		parties: make(map[string]int64),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Background steps
	sc.Step(`^a tmacl server is running$`, s.aServerIsRunning)
	sc.Step(`^a user "([^"]*)" exists$`, s.aUserExists)
	sc.Step(`^a team "([^"]*)" exists$`, s.aTeamExists)
	sc.Step(`^user "([^"]*)" is a member of team "([^"]*)"$`, s.userIsMemberOfTeam)
	sc.Step(`^the following group definitions are loaded:$`, s.groupDefinitionsAreLoaded)

	// Identity and grant steps
	sc.Step(`^I declare the object identity "([^"]*)"/(\d+)$`, s.iDeclareObjectIdentity)
	sc.Step(`^I remove the object identity "([^"]*)"/(\d+)$`, s.iRemoveObjectIdentity)
	sc.Step(`^I grant "([^"]*)" to "([^"]*)" on "([^"]*)"/(\d+)$`, s.iGrantGroupOn)
	sc.Step(`^I revoke the grants of "([^"]*)" on "([^"]*)"/(\d+)$`, s.iRevokeGrantsOn)

	// Assertion steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^"([^"]*)" should have "([^"]*)" permission on "([^"]*)"/(\d+)$`, s.shouldHavePermission)
	sc.Step(`^"([^"]*)" should not have "([^"]*)" permission on "([^"]*)"/(\d+)$`, s.shouldNotHavePermission)
	sc.Step(`^"([^"]*)" should be a project manager$`, s.shouldBeProjectManager)
	sc.Step(`^"([^"]*)" should not be a project manager$`, s.shouldNotBeProjectManager)
	sc.Step(`^the users with "([^"]*)" permission on "([^"]*)" objects (\d+) should be "([^"]*)"$`, s.usersWithPermissionShouldBe)
}

// Background steps

func (s *StepsContext) aServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) createParty() (int64, error) {
	party := model.Party{}
	err := s.tc.DB.Create(&party).Error
	return party.PartyID, err
}

func (s *StepsContext) aUserExists(login string) error {
	if _, ok := s.parties[login]; ok {
		return nil
	}
	partyID, err := s.createParty()
	if err != nil {
		return err
	}
	if err := s.tc.DB.Create(&model.User{PartyID: partyID, Login: login}).Error; err != nil {
		return err
	}
	s.parties[login] = partyID
	return nil
}

func (s *StepsContext) aTeamExists(name string) error {
	if _, ok := s.parties[name]; ok {
		return nil
	}
	partyID, err := s.createParty()
	if err != nil {
		return err
	}
	if err := s.tc.DB.Create(&model.Team{PartyID: partyID, Name: name}).Error; err != nil {
		return err
	}
	s.parties[name] = partyID
	return nil
}

func (s *StepsContext) userIsMemberOfTeam(login, team string) error {
	userID, ok := s.parties[login]
	if !ok {
		return fmt.Errorf("unknown user: %s", login)
	}
	teamID, ok := s.parties[team]
	if !ok {
		return fmt.Errorf("unknown team: %s", team)
	}
	return s.tc.DB.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.TeamMember{TeamID: teamID, UserID: userID}).Error
}

func (s *StepsContext) groupDefinitionsAreLoaded(definitions *godog.DocString) error {
	loader := groups.NewLoader(groups.NewGormStore(s.tc.DB))
	_, err := loader.LoadFromReader(strings.NewReader(definitions.Content))
	return err
}

// HTTP helpers

func (s *StepsContext) authToken() (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "integration",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	return token.SignedString([]byte(testJWTSecret))
}

func (s *StepsContext) doRequest(method, path string, body interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.tc.ServerURL+path, reader)
	if err != nil {
		return err
	}

	token, err := s.authToken()
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	s.response = resp
	s.responseBody = buf.Bytes()
	return nil
}

// Identity and grant steps

func (s *StepsContext) iDeclareObjectIdentity(class string, id int) error {
	return s.doRequest("POST", fmt.Sprintf("/identities/%s/%d", class, id), nil)
}

func (s *StepsContext) iRemoveObjectIdentity(class string, id int) error {
	return s.doRequest("DELETE", fmt.Sprintf("/identities/%s/%d", class, id), nil)
}

func (s *StepsContext) iGrantGroupOn(group, party, class string, id int) error {
	partyID, ok := s.parties[party]
	if !ok {
		return fmt.Errorf("unknown party: %s", party)
	}
	return s.doRequest("PUT",
		fmt.Sprintf("/parties/%d/responsibilities/%s/%d", partyID, class, id),
		map[string]string{"group": group})
}

func (s *StepsContext) iRevokeGrantsOn(party, class string, id int) error {
	partyID, ok := s.parties[party]
	if !ok {
		return fmt.Errorf("unknown party: %s", party)
	}
	return s.doRequest("DELETE",
		fmt.Sprintf("/parties/%d/responsibilities/%s/%d", partyID, class, id), nil)
}

// Assertion steps

func (s *StepsContext) theResponseStatusShouldBe(expected int) error {
	if s.response == nil {
		return fmt.Errorf("no response recorded")
	}
	if s.response.StatusCode != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, s.response.StatusCode, s.responseBody)
	}
	return nil
}

func (s *StepsContext) checkPermission(party, mask, class string, id int) (bool, error) {
	partyID, ok := s.parties[party]
	if !ok {
		return false, fmt.Errorf("unknown party: %s", party)
	}
	err := s.doRequest("GET",
		fmt.Sprintf("/parties/%d/permissions/%s/%d/%s", partyID, class, id, mask), nil)
	if err != nil {
		return false, err
	}
	if s.response.StatusCode != http.StatusOK {
		return false, fmt.Errorf("permission check failed with status %d: %s", s.response.StatusCode, s.responseBody)
	}

	var result struct {
		Allowed bool `json:"allowed"`
	}
	if err := json.Unmarshal(s.responseBody, &result); err != nil {
		return false, err
	}
	return result.Allowed, nil
}

func (s *StepsContext) shouldHavePermission(party, mask, class string, id int) error {
	allowed, err := s.checkPermission(party, mask, class, id)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("%s should have %s permission on %s/%d but does not", party, mask, class, id)
	}
	return nil
}

func (s *StepsContext) shouldNotHavePermission(party, mask, class string, id int) error {
	allowed, err := s.checkPermission(party, mask, class, id)
	if err != nil {
		return err
	}
	if allowed {
		return fmt.Errorf("%s should not have %s permission on %s/%d but does", party, mask, class, id)
	}
	return nil
}

func (s *StepsContext) checkProjectManager(party string) (bool, error) {
	partyID, ok := s.parties[party]
	if !ok {
		return false, fmt.Errorf("unknown party: %s", party)
	}
	if err := s.doRequest("GET", fmt.Sprintf("/parties/%d/project-manager", partyID), nil); err != nil {
		return false, err
	}
	if s.response.StatusCode != http.StatusOK {
		return false, fmt.Errorf("project-manager check failed with status %d: %s", s.response.StatusCode, s.responseBody)
	}

	var result struct {
		ProjectManager bool `json:"project_manager"`
	}
	if err := json.Unmarshal(s.responseBody, &result); err != nil {
		return false, err
	}
	return result.ProjectManager, nil
}

func (s *StepsContext) shouldBeProjectManager(party string) error {
	isManager, err := s.checkProjectManager(party)
	if err != nil {
		return err
	}
	if !isManager {
		return fmt.Errorf("%s should be a project manager but is not", party)
	}
	return nil
}

func (s *StepsContext) shouldNotBeProjectManager(party string) error {
	isManager, err := s.checkProjectManager(party)
	if err != nil {
		return err
	}
	if isManager {
		return fmt.Errorf("%s should not be a project manager but is", party)
	}
	return nil
}

func (s *StepsContext) usersWithPermissionShouldBe(mask, class string, id int, expected string) error {
	err := s.doRequest("GET",
		fmt.Sprintf("/permissions/%s/%s-users?ids=%d", class, mask, id), nil)
	if err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusOK {
		return fmt.Errorf("query failed with status %d: %s", s.response.StatusCode, s.responseBody)
	}

	var result struct {
		Logins []string `json:"logins"`
	}
	if err := json.Unmarshal(s.responseBody, &result); err != nil {
		return err
	}

	var want []string
	if expected != "" {
		for _, login := range strings.Split(expected, ",") {
			want = append(want, strings.TrimSpace(login))
		}
	}

	if len(result.Logins) != len(want) {
		return fmt.Errorf("expected logins %v, got %v", want, result.Logins)
	}
	got := make(map[string]bool, len(result.Logins))
	for _, login := range result.Logins {
		got[login] = true
	}
	for _, login := range want {
		if !got[login] {
			return fmt.Errorf("expected logins %v, got %v", want, result.Logins)
		}
	}
	return nil
}
