package zohocrm

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/rubyzoho/zohocrm.go/internal/fakecrm"
	"github.com/rubyzoho/zohocrm.go/pkg/config"
	"github.com/rubyzoho/zohocrm.go/pkg/constants"
	"github.com/rubyzoho/zohocrm.go/pkg/models"
	"github.com/rubyzoho/zohocrm.go/pkg/schema"
)

var testFields = schema.StaticSource{
	"Contacts": {
		models.NewFieldDescriptor("Last Name", models.TypeText),
		models.NewFieldDescriptor("Email", models.TypeText),
		models.NewFieldDescriptor("Date of Birth", models.TypeDate),
		models.NewFieldDescriptor("Email Opt Out", models.TypeBoolean),
	},
	"Leads": {
		models.NewFieldDescriptor("Last Name", models.TypeText),
		models.NewFieldDescriptor("No of Employees", models.TypeInteger),
		models.NewFieldDescriptor("Modified Time", models.TypeDateTime),
	},
}

type ClientTestSuite struct {
	suite.Suite
	server *fakecrm.Server
	client *Client
	ctx    context.Context
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.server = fakecrm.NewServer()

	client, err := New(s.ctx, s.config(), WithSchemaSource(testFields), WithHTTPClient(s.server.Client()))
	s.Require().NoError(err)
	s.client = client
}

func (s *ClientTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientTestSuite) config() *config.Config {
	return &config.Config{
		AuthToken:    "token",
		BaseURL:      s.server.URL(),
		Modules:      []string{"Vendors"},
		IgnoreFields: []string{"Modified Time"},
	}
}

func (s *ClientTestSuite) lastRequest() fakecrm.Request {
	req, ok := s.server.LastRequest()
	s.Require().True(ok, "no request received")
	return req
}

const contactRow = `<row no="1"><FL val="CONTACTID">123</FL><FL val="Last Name">Smith</FL>` +
	`<FL val="Date of Birth">1980-02-03</FL><FL val="Email Opt Out">true</FL></row>`

func (s *ClientTestSuite) TestFindRecordsByID() {
	s.server.Stub("Contacts", "getRecordById", http.StatusOK, fakecrm.Rows("Contacts", contactRow))

	recs, err := s.client.FindRecords(s.ctx, "Contacts", ":id", "", "123")
	s.Require().NoError(err)
	s.Require().Len(recs, 1)

	req := s.lastRequest()
	s.Equal(http.MethodGet, req.Method)
	s.Equal("getRecordById", req.Action)
	s.Equal("123", req.Params.Get("id"))
	s.Equal("token", req.Params.Get("authtoken"))
	s.Equal("crmapi", req.Params.Get("scope"))

	rec := recs[0]
	s.Equal("123", rec.String("contactid"))
	s.Equal("Smith", rec.String("last_name"))
	dob, _ := rec.Get("date_of_birth")
	s.Equal(time.Date(1980, 2, 3, 0, 0, 0, 0, time.UTC), dob)
	optOut, _ := rec.Get("email_opt_out")
	s.Equal(true, optOut)
}

func (s *ClientTestSuite) TestFindRecordsByRelatedKey() {
	s.server.Stub("Contacts", "getSearchRecordsByPDC", http.StatusOK, fakecrm.Rows("Contacts", contactRow))

	recs, err := s.client.FindRecords(s.ctx, "Contacts", "accountid", "", "99")
	s.Require().NoError(err)
	s.Len(recs, 1)

	req := s.lastRequest()
	s.Equal("getSearchRecordsByPDC", req.Action)
	s.Equal("accountid", req.Params.Get("searchColumn"))
	s.Equal("99", req.Params.Get("searchValue"))
	s.Equal("2", req.Params.Get("version"))
}

func (s *ClientTestSuite) TestFindRecordsByField() {
	s.server.Stub("Contacts", "getSearchRecords", http.StatusOK, fakecrm.Rows("Contacts", contactRow))

	recs, err := s.client.FindRecords(s.ctx, "Contacts", "email", "equals", "a@b.com")
	s.Require().NoError(err)
	s.Len(recs, 1)

	req := s.lastRequest()
	s.Equal("getSearchRecords", req.Action)
	s.Equal("(email|equals|a@b.com)", req.Params.Get("searchCondition"))
	s.Equal("All", req.Params.Get("selectColumns"))
}

func (s *ClientTestSuite) TestInvalidRelatedFieldMakesNoCall() {
	_, err := s.client.FindRecords(s.ctx, "Contacts", "smownerid", "", "1")
	s.Require().Error(err)
	s.ErrorIs(err, constants.ErrInvalidRelatedField)

	_, err = s.client.FindRecordByRelatedID(s.ctx, "Leads", "accountid", "1")
	s.ErrorIs(err, constants.ErrInvalidRelatedField)

	s.Empty(s.server.Requests())
}

func (s *ClientTestSuite) TestNoDataIsEmptyResult() {
	s.server.Stub("Contacts", "getSearchRecords", http.StatusOK, fakecrm.NoData())

	recs, err := s.client.FindRecordByField(s.ctx, "Contacts", "Last Name", "=", "Nobody")
	s.Require().NoError(err)
	s.Empty(recs)
}

func (s *ClientTestSuite) TestServiceError() {
	s.server.Stub("Contacts", "getRecordById", http.StatusOK, fakecrm.Error("4401", "Unable to populate data"))

	_, err := s.client.FindRecordByID(s.ctx, "Contacts", "1")
	s.Require().Error(err)
	s.ErrorIs(err, constants.ErrService)

	var svc *ServiceError
	s.Require().ErrorAs(err, &svc)
	s.Equal("4401", svc.Code)
	s.Equal("4401: Unable to populate data", err.Error())
}

func (s *ClientTestSuite) TestTransportError() {
	s.server.Stub("Contacts", "getRecords", http.StatusInternalServerError, "")

	_, err := s.client.Some(s.ctx, "Contacts", 1, 10)
	s.Require().Error(err)
	s.ErrorIs(err, constants.ErrTransport)

	var te *TransportError
	s.Require().ErrorAs(err, &te)
	s.Equal(http.StatusInternalServerError, te.StatusCode)
}

func (s *ClientTestSuite) TestConnectionDrop() {
	s.server.AddStubResponse(fakecrm.StubResponse{
		Matcher: fakecrm.MatchAction("Contacts", "getRecords"),
		Failure: fakecrm.FailureConnectionDrop,
	})

	_, err := s.client.First(s.ctx, "Contacts")
	s.ErrorIs(err, constants.ErrTransport)
}

func (s *ClientTestSuite) TestCancelledContext() {
	s.server.AddStubResponse(fakecrm.StubResponse{
		Matcher: fakecrm.MatchAction("Contacts", "getRecords"),
		Failure: fakecrm.FailureResponseDelay,
		Delay:   time.Second,
		Body:    fakecrm.NoData(),
	})

	ctx, cancel := context.WithTimeout(s.ctx, 20*time.Millisecond)
	defer cancel()

	_, err := s.client.Some(ctx, "Contacts", 1, 0)
	s.ErrorIs(err, constants.ErrTransport)
	s.ErrorIs(err, context.DeadlineExceeded)
}

func (s *ClientTestSuite) TestMalformedReply() {
	s.server.Stub("Contacts", "getRecords", http.StatusOK, "<response><result>")

	_, err := s.client.Some(s.ctx, "Contacts", 1, 0)
	s.ErrorIs(err, constants.ErrMalformedResponse)
}

func (s *ClientTestSuite) TestUnknownModule() {
	_, err := s.client.Some(s.ctx, "Widgets", 1, 0)
	s.ErrorIs(err, constants.ErrUnknownModule)

	_, err = s.client.FindRecords(s.ctx, "Widgets", "name", "=", "x")
	s.ErrorIs(err, constants.ErrUnknownModule)

	_, err = s.client.ModuleFields("Widgets")
	s.ErrorIs(err, constants.ErrUnknownModule)

	s.Empty(s.server.Requests())
}

func (s *ClientTestSuite) TestModules() {
	s.Equal([]string{"Accounts", "Contacts", "Events", "Leads", "Potentials", "Tasks", "Users", "Vendors"}, s.client.Modules())
	s.Equal("activityid", s.client.PrimaryKey("Events"))
	s.Equal("vendorid", s.client.PrimaryKey("Vendors"))

	fields, err := s.client.ModuleFields("Leads")
	s.Require().NoError(err)
	s.Len(fields, 3)
	s.Equal(models.TypeInteger, fields[1].Type)
}

func TestNewRequiresToken(t *testing.T) {
	_, err := New(context.Background(), &config.Config{})
	assert.ErrorIs(t, err, constants.ErrNoAuthToken)

	_, err = New(context.Background(), nil)
	assert.Error(t, err)
}

func TestNewWithRemoteSchema(t *testing.T) {
	server := fakecrm.NewServer()
	defer server.Close()

	fields := `<Contacts><section name="Contact Information" dv="Contact Information">` +
		`<FL req="true" type="Text" isreadonly="false" maxlength="80" label="Last Name" dv="Last Name" customfield="false"></FL>` +
		`<FL req="false" type="Date" isreadonly="false" maxlength="20" label="Date of Birth" dv="Date of Birth" customfield="false"></FL>` +
		`<FL req="false" type="Currency" isreadonly="false" maxlength="16" dv="Annual Revenue" customfield="false"></FL>` +
		`</section></Contacts>`
	for _, module := range []string{"Accounts", "Contacts", "Events", "Leads", "Potentials", "Tasks"} {
		server.Stub(module, "getFields", http.StatusOK, fields)
	}

	c, err := New(context.Background(),
		&config.Config{AuthToken: "token", BaseURL: server.URL()},
		WithHTTPClient(server.Client()))
	require.NoError(t, err)

	got, err := c.ModuleFields("Contacts")
	require.NoError(t, err)
	assert.Equal(t, []models.FieldDescriptor{
		models.NewFieldDescriptor("Last Name", models.TypeText),
		models.NewFieldDescriptor("Date of Birth", models.TypeDate),
		models.NewFieldDescriptor("Annual Revenue", models.TypeDecimal),
	}, got)

	users, err := c.ModuleFields("Users")
	require.NoError(t, err)
	assert.Empty(t, users)

	for _, req := range server.Requests() {
		assert.NotEqual(t, "Users", req.Module)
		assert.Equal(t, "token", req.Params.Get("authtoken"))
	}
}

func TestNewSchemaLoadFailure(t *testing.T) {
	server := fakecrm.NewServer()
	defer server.Close()

	_, err := New(context.Background(),
		&config.Config{AuthToken: "token", BaseURL: server.URL()},
		WithHTTPClient(server.Client()))
	require.Error(t, err)
	assert.ErrorIs(t, err, constants.ErrSchemaLoad)
	assert.ErrorIs(t, err, constants.ErrService)

	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "Accounts", loadErr.Module)
	assert.Len(t, server.Requests(), 1)
}

func TestNewWithFieldsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
modules:
  Leads:
    - name: Last Name
      type: text
    - name: Annual Revenue
      type: Currency
`), 0o600))

	c, err := New(context.Background(), &config.Config{AuthToken: "token", FieldsFile: path},
		WithConnection(failingConnection{}))
	require.NoError(t, err)

	fields, err := c.ModuleFields("Leads")
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, models.TypeDecimal, fields[1].Type)

	_, err = New(context.Background(), &config.Config{AuthToken: "token", FieldsFile: path + ".missing"})
	assert.ErrorIs(t, err, constants.ErrSchemaLoad)
}

func TestMetricsRegistered(t *testing.T) {
	server := fakecrm.NewServer()
	defer server.Close()
	server.Stub("Leads", "getRecords", http.StatusOK, fakecrm.NoData())

	reg := prometheus.NewRegistry()
	c, err := New(context.Background(),
		&config.Config{AuthToken: "token", BaseURL: server.URL()},
		WithSchemaSource(testFields),
		WithHTTPClient(server.Client()),
		WithRegisterer(reg))
	require.NoError(t, err)

	_, err = c.First(context.Background(), "Leads")
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "zohocrm_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
