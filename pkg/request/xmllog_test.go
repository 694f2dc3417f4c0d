package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogSample_Param(t *testing.T) {
	tests := []struct {
		name  string
		xml   string
		field string
		want  string
	}{
		{
			name:  "body wins over header",
			xml:   `<Envelope><Header><id>H</id></Header><Body><Req><id>B</id></Req></Body></Envelope>`,
			field: "id",
			want:  "B",
		},
		{
			name:  "attribute before element",
			xml:   `<Envelope><Body><Req accountId="A1"><accountId>A2</accountId></Req></Body></Envelope>`,
			field: "accountId",
			want:  "A1",
		},
		{
			name:  "normalized names",
			xml:   `<Req><account_id>77</account_id></Req>`,
			field: "accountId",
			want:  "77",
		},
		{
			name:  "name value pair",
			xml:   `<Req><param><name>Account-ID</name><value>P1</value></param></Req>`,
			field: "accountId",
			want:  "P1",
		},
		{
			name:  "falls back to whole document",
			xml:   `<Envelope><Header><token>T</token></Header><Body><Req/></Body></Envelope>`,
			field: "token",
			want:  "T",
		},
		{
			name:  "non-leaf elements are skipped",
			xml:   `<Req><id><inner>x</inner></id></Req>`,
			field: "id",
			want:  "",
		},
		{
			name:  "backticks are stripped",
			xml:   "```\n<Req><id>9</id></Req>\n```",
			field: "id",
			want:  "9",
		},
		{
			name:  "unparseable text uses patterns",
			xml:   `<Req><id>5</id>`,
			field: "id",
			want:  "5",
		},
		{
			name:  "unparseable text attribute",
			xml:   `<Req code="Z9"><id>5</id>`,
			field: "code",
			want:  "Z9",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParamFromXML(tt.xml, tt.field))
		})
	}
}

func TestLogSample_NameValuePairs(t *testing.T) {
	s := ParseLog(`<r><p><name>a</name><value>1</value></p><p><ns:name>b</ns:name><ns:value></ns:value></p><p><name>a</name><value>3</value></p></r>`)
	assert.Equal(t, []KeyValue{{Key: "a", Value: "3"}, {Key: "b", Value: ""}}, s.NameValuePairs())
}

func TestLogSample_Headers(t *testing.T) {
	s := ParseLog(`<Envelope><MessageHeader><user>u1</user><USER>u2</USER><nested><x>1</x></nested><empty/></MessageHeader>
<Body><p><name>channel</name><value>web</value></p><p><name>user</name><value>u3</value></p></Body></Envelope>`)
	require.NotNil(t, s.Doc)
	assert.Equal(t, []KeyValue{{Key: "user", Value: "u1"}, {Key: "channel", Value: "web"}}, s.Headers())
}

func TestLogSample_CanonicalHeaderValues(t *testing.T) {
	s := ParseLog(`<Envelope><Header><app:application>HDR</app:application></Header><Body><application>BODY</application><eTrackingID> ET-1 </eTrackingID></Body></Envelope>`)
	assert.Equal(t, []KeyValue{
		{Key: "X-application", Value: "HDR"},
		{Key: "X-eTrackingID", Value: "ET-1"},
	}, s.CanonicalHeaderValues())
}
