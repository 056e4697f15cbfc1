package zohocrm

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/rubyzoho/zohocrm.go/internal/fakecrm"
	"github.com/rubyzoho/zohocrm.go/pkg/connection"
	"github.com/rubyzoho/zohocrm.go/pkg/models"
)

// failingConnection refuses every call.
type failingConnection struct{}

func (failingConnection) Get(context.Context, string, url.Values) (*connection.Response, error) {
	return nil, errors.New("no network in this test")
}

func (failingConnection) Post(context.Context, string, url.Values, http.Header) (*connection.Response, error) {
	return nil, errors.New("no network in this test")
}

const insertAck = `<?xml version="1.0" encoding="UTF-8" ?>
<response uri="/crm/private/xml/Leads/insertRecords"><result><message>Record(s) added successfully</message>
<recorddetail><FL val="Id">2000000017001</FL><FL val="Created Time">2013-05-07 12:30:00</FL>
<FL val="Modified Time">2013-05-07 12:30:00</FL><FL val="Created By"><![CDATA[Admin]]></FL></recorddetail>
</result></response>`

func (s *ClientTestSuite) TestAddRecord() {
	s.server.Stub("Leads", "insertRecords", http.StatusOK, insertAck)

	rec := models.NewRecord(
		"Last Name", "O'Brien & Sons",
		"No of Employees", 12,
		"Modified Time", time.Now(),
	)
	got, err := s.client.AddRecord(s.ctx, "Leads", rec)
	s.Require().NoError(err)

	s.Equal("2000000017001", got.String("leadid"))
	s.Equal("Admin", got.String("created_by"))
	_, hasModified := got.Get("modified_time")
	s.False(hasModified, "ignored field decoded")

	req := s.lastRequest()
	s.Equal(http.MethodPost, req.Method)
	s.Equal("insertRecords", req.Action)
	s.Equal("1", req.Params.Get("newFormat"))
	s.Equal(`<Leads><row no="1"><FL val="Last Name">O&#39;Brien &amp; Sons</FL><FL val="No of Employees">12</FL></row></Leads>`,
		req.Params.Get("xmlData"))
}

func (s *ClientTestSuite) TestUpdateRecord() {
	s.server.Stub("Contacts", "updateRecords", http.StatusOK,
		`<response><result><message>Record(s) updated successfully</message>`+
			`<recorddetail><FL val="Id">123</FL><FL val="Modified Time">2013-05-07 12:30:00</FL></recorddetail>`+
			`</result></response>`)

	got, err := s.client.UpdateRecord(s.ctx, "Contacts", "123", models.NewRecord("Email", "new@example.com"))
	s.Require().NoError(err)
	s.Equal("123", got.String("contactid"))

	req := s.lastRequest()
	s.Equal("123", req.Params.Get("id"))
	s.Contains(req.Params.Get("xmlData"), `<FL val="Email">new@example.com</FL>`)
}

func (s *ClientTestSuite) TestUpdateRecords() {
	s.server.Stub("Leads", "updateRecords", http.StatusOK,
		`<response uri="/crm/private/xml/Leads/updateRecords"><result>`+
			`<row no="1"><success><code>2001</code><details><FL val="Id">1</FL></details></success></row>`+
			`<row no="2"><success><code>2001</code><details><FL val="Id">2</FL></details></success></row>`+
			`</result></response>`)

	got, err := s.client.UpdateRecords(s.ctx, "Leads", []models.Record{
		models.NewRecord("Id", "1", "Last Name", "Smith"),
		models.NewRecord("Id", "2", "Last Name", "Jones"),
	})
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal("1", got[0].String("leadid"))
	s.Equal("2", got[1].String("leadid"))

	req := s.lastRequest()
	s.Equal("4", req.Params.Get("version"))
	s.Empty(req.Params.Get("newFormat"))
	s.Contains(req.Params.Get("xmlData"), `<row no="1"><FL val="Id">1</FL>`)
	s.Contains(req.Params.Get("xmlData"), `<row no="2"><FL val="Id">2</FL>`)

	got, err = s.client.UpdateRecords(s.ctx, "Leads", nil)
	s.NoError(err)
	s.Nil(got)
}

func (s *ClientTestSuite) TestDeleteRecord() {
	s.server.Stub("Leads", "deleteRecords", http.StatusOK,
		`<response uri="/crm/private/xml/Leads/deleteRecords"><result><code>5000</code><message>Record Id(s) : 1,Record(s) deleted successfully</message></result></response>`)

	s.Require().NoError(s.client.DeleteRecord(s.ctx, "Leads", "1"))

	req := s.lastRequest()
	s.Equal(http.MethodPost, req.Method)
	s.Equal("deleteRecords", req.Action)
	s.Equal("1", req.Params.Get("id"))
}

func (s *ClientTestSuite) TestSomeAndFirst() {
	s.server.Stub("Contacts", "getRecords", http.StatusOK, fakecrm.Rows("Contacts", contactRow))

	recs, err := s.client.Some(s.ctx, "Contacts", 11, 10)
	s.Require().NoError(err)
	s.Len(recs, 1)

	req := s.lastRequest()
	s.Equal("2", req.Params.Get("newFormat"))
	s.Equal("11", req.Params.Get("fromIndex"))
	s.Equal("20", req.Params.Get("toIndex"))

	_, err = s.client.Some(s.ctx, "Contacts", 0, 0)
	s.Require().NoError(err)
	req = s.lastRequest()
	s.Equal("1", req.Params.Get("fromIndex"))
	s.Equal("200", req.Params.Get("toIndex"))

	first, err := s.client.First(s.ctx, "Contacts")
	s.Require().NoError(err)
	s.Equal("Smith", first.String("last_name"))
	req = s.lastRequest()
	s.Equal("1", req.Params.Get("toIndex"))
}

func (s *ClientTestSuite) TestFirstOfEmptyModule() {
	s.server.Stub("Leads", "getRecords", http.StatusOK, fakecrm.NoData())

	first, err := s.client.First(s.ctx, "Leads")
	s.NoError(err)
	s.Nil(first)
}

func (s *ClientTestSuite) TestRecordsFromCustomView() {
	s.server.Stub("Contacts", "getCVRecords", http.StatusOK, fakecrm.Rows("Contacts", contactRow))

	recs, err := s.client.RecordsFromCustomView(s.ctx, "Contacts", "My Contacts", 1, 50)
	s.Require().NoError(err)
	s.Len(recs, 1)

	req := s.lastRequest()
	s.Equal("My Contacts", req.Params.Get("cvName"))
	s.Equal("50", req.Params.Get("toIndex"))
}

func (s *ClientTestSuite) TestRelatedRecords() {
	s.server.Stub("Contacts", "getRelatedRecords", http.StatusOK, fakecrm.Rows("Contacts", contactRow, contactRow))

	recs, err := s.client.RelatedRecords(s.ctx, "Accounts", "77", "Contacts")
	s.Require().NoError(err)
	s.Len(recs, 2)

	req := s.lastRequest()
	s.Equal("Contacts", req.Module)
	s.Equal("Accounts", req.Params.Get("parentModule"))
	s.Equal("77", req.Params.Get("id"))

	_, err = s.client.RelatedRecords(s.ctx, "Accounts", "77", "Widgets")
	s.Error(err)
}
