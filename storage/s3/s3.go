package s3

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/client"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/sourcegraph/termbench/storage/fs"
	"github.com/sourcegraph/termbench/types"
)

// Type should match the package name
const Type = "s3"

// Storage keeps benchmark suites in an S3 bucket, one object per
// suite named by fs.SuiteFilename, next to an fs.IndexName object.
type Storage struct {
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	Region          string `json:"region,omitempty"`
	Bucket          string `json:"bucket"`

	// Prefix is prepended to every key, e.g. "termbench/".
	Prefix string `json:"prefix,omitempty"`

	// Suites run more than ResultExpiry ago are deleted by
	// Maintain. Zero keeps every object.
	ResultExpiry time.Duration `json:"result_expiry,omitempty"`
}

// New creates a new Storage instance based on json config
func New(config json.RawMessage) (Storage, error) {
	var storage Storage
	err := json.Unmarshal(config, &storage)
	return storage, err
}

// Type returns the storage driver package name
func (Storage) Type() string {
	return Type
}

func (s Storage) service() s3svc {
	return newS3(session.New(), &aws.Config{
		Credentials: credentials.NewStaticCredentials(s.AccessKeyID, s.SecretAccessKey, ""),
		Region:      &s.Region,
	})
}

func (s Storage) key(name string) *string {
	return aws.String(s.Prefix + name)
}

func (s Storage) get(svc s3svc, name string) ([]byte, error) {
	out, err := svc.GetObject(&s3.GetObjectInput{Bucket: &s.Bucket, Key: s.key(name)})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	return ioutil.ReadAll(out.Body)
}

func (s Storage) put(svc s3svc, name string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = svc.PutObject(&s3.PutObjectInput{
		Bucket:      &s.Bucket,
		Key:         s.key(name),
		Body:        bytes.NewReader(b),
		ContentType: aws.String("application/json"),
	})
	return errors.Wrapf(err, "s3: writing %s", name)
}

func (s Storage) readIndex(svc s3svc) (fs.Index, error) {
	index := fs.Index{}
	b, err := s.get(svc, fs.IndexName)
	if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
		return index, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "s3: reading index")
	}
	err = json.Unmarshal(b, &index)
	return index, errors.Wrap(err, "s3: decoding index")
}

// Store writes one object per suite and adds them to the index.
func (s Storage) Store(suites []types.Suite) error {
	svc := s.service()
	index, err := s.readIndex(svc)
	if err != nil {
		return err
	}
	for _, suite := range suites {
		name := index.Add(suite)
		if err := s.put(svc, name, []types.Suite{suite}); err != nil {
			return err
		}
		log.WithFields(log.Fields{"bucket": s.Bucket, "key": *s.key(name)}).Debug("s3: stored suite")
	}
	return s.put(svc, fs.IndexName, index)
}

// GetIndex returns the index object.
func (s Storage) GetIndex() (map[string]int64, error) {
	return s.readIndex(s.service())
}

// Fetch reads the suites stored under name.
func (s Storage) Fetch(name string) ([]types.Suite, error) {
	b, err := s.get(s.service(), path.Base(name))
	if err != nil {
		return nil, errors.Wrapf(err, "s3: reading %s", name)
	}
	var suites []types.Suite
	if err := json.Unmarshal(b, &suites); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", name)
	}
	return suites, nil
}

// Maintain deletes the suite objects run more than s.ResultExpiry ago.
// Objects missing from the index are aged by their modification time.
func (s Storage) Maintain() error {
	if s.ResultExpiry == 0 {
		return nil
	}

	svc := s.service()
	index, err := s.readIndex(svc)
	if err != nil {
		return err
	}

	now := time.Now()
	var marker *string
	for {
		listResp, err := svc.ListObjects(&s3.ListObjectsInput{
			Bucket: &s.Bucket,
			Prefix: aws.String(s.Prefix),
			Marker: marker,
		})
		if err != nil {
			return err
		}

		var objsToDelete []*s3.ObjectIdentifier
		for _, o := range listResp.Contents {
			name := path.Base(aws.StringValue(o.Key))
			if fs.TargetOf(name) == "" {
				continue
			}
			ran, ok := index[name]
			if !ok {
				ran = aws.TimeValue(o.LastModified).UnixNano()
			}
			if now.Sub(time.Unix(0, ran)) > s.ResultExpiry {
				objsToDelete = append(objsToDelete, &s3.ObjectIdentifier{Key: o.Key})
				delete(index, name)
			}
		}

		if len(objsToDelete) > 0 {
			_, err = svc.DeleteObjects(&s3.DeleteObjectsInput{
				Bucket: &s.Bucket,
				Delete: &s3.Delete{
					Objects: objsToDelete,
					Quiet:   aws.Bool(true),
				},
			})
			if err != nil {
				return err
			}
			log.WithFields(log.Fields{"bucket": s.Bucket, "count": len(objsToDelete)}).Debug("s3: deleted expired suites")
		}

		if !aws.BoolValue(listResp.IsTruncated) || len(listResp.Contents) == 0 {
			break
		}
		marker = listResp.Contents[len(listResp.Contents)-1].Key
	}

	// drop entries whose objects are gone
	for _, name := range index.Expired(now, s.ResultExpiry) {
		delete(index, name)
	}
	return s.put(svc, fs.IndexName, index)
}

// newS3 calls s3.New(), but may be replaced for mocking in tests.
var newS3 = func(p client.ConfigProvider, cfgs ...*aws.Config) s3svc {
	return s3.New(p, cfgs...)
}

// s3svc is used for mocking the s3.S3 type.
type s3svc interface {
	GetObject(*s3.GetObjectInput) (*s3.GetObjectOutput, error)
	PutObject(*s3.PutObjectInput) (*s3.PutObjectOutput, error)
	ListObjects(*s3.ListObjectsInput) (*s3.ListObjectsOutput, error)
	DeleteObjects(*s3.DeleteObjectsInput) (*s3.DeleteObjectsOutput, error)
}
