package s3

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/client"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/sourcegraph/termbench/storage/fs"
	"github.com/sourcegraph/termbench/types"
)

func TestS3Store(t *testing.T) {
	keyID, accessKey, region, bucket := "fakeKeyID", "fakeKey", "fakeRegion", "fakeBucket"
	fakes3 := newS3Mock()
	newS3 = func(p client.ConfigProvider, cfgs ...*aws.Config) s3svc {
		if len(cfgs) != 1 {
			t.Fatalf("Expected 1 aws.Config, got %d", len(cfgs))
		}
		creds, err := cfgs[0].Credentials.Get()
		if err != nil {
			t.Fatalf("Got an error when calling Get() on Credentials: %v", err)
		}
		if got, want := creds.AccessKeyID, keyID; got != want {
			t.Errorf("Expected AccessKeyID to be '%s', got '%s'", want, got)
		}
		if got, want := creds.SecretAccessKey, accessKey; got != want {
			t.Errorf("Expected SecretAccessKey to be '%s', got '%s'", want, got)
		}
		if got, want := *cfgs[0].Region, region; got != want {
			t.Errorf("Expected Region to be '%s', got '%s'", want, got)
		}
		return fakes3
	}

	ts := time.Date(2024, 3, 1, 12, 30, 5, 0, time.UTC).UnixNano()
	suites := []types.Suite{
		{Target: "kitty", Host: "h", OS: "linux", Timestamp: ts},
		{Target: "wezterm", Host: "h", OS: "linux", Timestamp: ts},
	}
	specimen := Storage{
		AccessKeyID:     keyID,
		SecretAccessKey: accessKey,
		Region:          region,
		Bucket:          bucket,
		Prefix:          "bench/",
	}
	if err := specimen.Store(suites); err != nil {
		t.Fatalf("Expected no error from Store(), got: %v", err)
	}

	if got, want := fakes3.bucket, bucket; got != want {
		t.Errorf("Expected Bucket to be '%s', got '%s'", want, got)
	}
	want := []string{"bench/index.json", "bench/kitty_20240301_123005.json", "bench/wezterm_20240301_123005.json"}
	if got := fakes3.keys(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Expected keys %v, got %v", want, got)
	}
	body := string(fakes3.objects["bench/kitty_20240301_123005.json"].body)
	if got, want := body, `[{"target":"kitty","host":"h","os_info":"linux","timestamp":`; !strings.HasPrefix(got, want) {
		t.Errorf("Contents of file are wrong\nExpected prefix %s\n     Got %s", want, got)
	}
	if strings.Contains(body, "wezterm") {
		t.Errorf("Expected one suite per object, got %s", body)
	}

	index, err := specimen.GetIndex()
	if err != nil {
		t.Fatalf("Expected no error from GetIndex(), got: %v", err)
	}
	if got, want := index["kitty_20240301_123005.json"], ts; got != want {
		t.Errorf("Expected kitty indexed at %d, got %d", want, got)
	}

	fetched, err := specimen.Fetch("wezterm_20240301_123005.json")
	if err != nil {
		t.Fatalf("Expected no error from Fetch(), got: %v", err)
	}
	if len(fetched) != 1 || fetched[0].Target != "wezterm" {
		t.Errorf("Expected the wezterm suite, got %+v", fetched)
	}
	if _, err := specimen.Fetch("alacritty_20240301_123005.json"); err == nil {
		t.Error("Expected an error fetching a missing object")
	}
}

func TestS3Maintain(t *testing.T) {
	fakes3 := newS3Mock()
	newS3 = func(p client.ConfigProvider, cfgs ...*aws.Config) s3svc {
		return fakes3
	}

	now := time.Now()
	old := now.Add(-90 * 24 * time.Hour)
	fresh := func(target string) string {
		return fs.SuiteFilename(types.Suite{Target: target, Timestamp: now.UnixNano()})
	}
	stale := func(target string) string {
		return fs.SuiteFilename(types.Suite{Target: target, Timestamp: old.UnixNano()})
	}

	index := fs.Index{
		fresh("a"): now.UnixNano(),
		fresh("b"): now.UnixNano(),
		stale("c"): old.UnixNano(),
	}
	// a and b fill the first page, so the expired objects are on
	// later pages
	fakes3.add(fresh("a"), now, nil)
	fakes3.add(fresh("b"), now, nil)
	fakes3.add(stale("c"), now, nil)
	fakes3.add(stale("d"), old, nil)
	fakes3.add("notes.txt", old, nil)
	fakes3.add(fs.IndexName, now, mustJSON(index))
	fakes3.pageSize = 2

	var specimen Storage
	if err := specimen.Maintain(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(fakes3.deleted) != 0 {
		t.Fatal("No deletions should happen unless ResultExpiry is set")
	}

	specimen.ResultExpiry = 30 * 24 * time.Hour
	if err := specimen.Maintain(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	sort.Strings(fakes3.deleted)
	if got, want := strings.Join(fakes3.deleted, ","), stale("c")+","+stale("d"); got != want {
		t.Errorf("Expected deletions %s, got %s", want, got)
	}
	if got, want := fakes3.lists, 3; got != want {
		t.Errorf("Expected every page to be listed (%d calls), got %d", want, got)
	}

	remaining, err := specimen.GetIndex()
	if err != nil {
		t.Fatalf("Expected no error from GetIndex(), got: %v", err)
	}
	if _, ok := remaining[stale("c")]; ok || len(remaining) != 2 {
		t.Errorf("Expected only the fresh suites indexed, got %v", remaining)
	}
}

func mustJSON(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

type object struct {
	body     []byte
	modified time.Time
}

// s3Mock is an in-memory bucket standing in for s3.S3.
type s3Mock struct {
	bucket   string
	objects  map[string]object
	deleted  []string
	pageSize int
	lists    int
}

func newS3Mock() *s3Mock {
	return &s3Mock{objects: map[string]object{}, pageSize: 1000}
}

func (s *s3Mock) add(key string, modified time.Time, body []byte) {
	s.objects[key] = object{body: body, modified: modified}
}

func (s *s3Mock) keys() []string {
	var keys []string
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *s3Mock) GetObject(input *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
	o, ok := s.objects[*input.Key]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "no such key: "+*input.Key, nil)
	}
	return &s3.GetObjectOutput{Body: ioutil.NopCloser(bytes.NewReader(o.body))}, nil
}

func (s *s3Mock) PutObject(input *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	s.bucket = *input.Bucket
	b, err := ioutil.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	s.objects[*input.Key] = object{body: b, modified: time.Now()}
	return &s3.PutObjectOutput{}, nil
}

func (s *s3Mock) ListObjects(input *s3.ListObjectsInput) (*s3.ListObjectsOutput, error) {
	s.lists++
	var page []*s3.Object
	for _, k := range s.keys() {
		if !strings.HasPrefix(k, aws.StringValue(input.Prefix)) || k <= aws.StringValue(input.Marker) {
			continue
		}
		page = append(page, &s3.Object{Key: aws.String(k), LastModified: aws.Time(s.objects[k].modified)})
	}
	truncated := len(page) > s.pageSize
	if truncated {
		page = page[:s.pageSize]
	}
	return &s3.ListObjectsOutput{Contents: page, IsTruncated: aws.Bool(truncated)}, nil
}

func (s *s3Mock) DeleteObjects(input *s3.DeleteObjectsInput) (*s3.DeleteObjectsOutput, error) {
	for _, o := range input.Delete.Objects {
		s.deleted = append(s.deleted, *o.Key)
		delete(s.objects, *o.Key)
	}
	return &s3.DeleteObjectsOutput{}, nil
}
