package pipeline_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/katube/audio-archiver/internal/objstore"
	"github.com/katube/audio-archiver/internal/pipeline"
	"github.com/katube/audio-archiver/internal/source"
)

func TestPipeline(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Pipeline Suite")
}

type fakeSource struct {
	infoErr     map[string]error
	downloadErr map[string]error
	urls        []string
	enumerr     error
}

func (f *fakeSource) Info(_ context.Context, url string) (*source.VideoInfo, error) {
	if err, found := f.infoErr[url]; found {
		return nil, err
	}
	return &source.VideoInfo{
		ID:              pipeline.DisplayVideoID(url),
		Title:           "title of " + pipeline.DisplayVideoID(url),
		DurationSeconds: 120,
	}, nil
}

func (f *fakeSource) Download(_ context.Context, url, destDir, customName string) (string, error) {
	if err, found := f.downloadErr[url]; found {
		return "", err
	}
	name := pipeline.DisplayVideoID(url)
	if customName != "" {
		name = customName
	}
	path := filepath.Join(destDir, name+".flac")
	if err := os.WriteFile(path, []byte("flac data"), 0644); err != nil {
		return "", err
	}
	return path, nil
}

func (f *fakeSource) Enumerate(_ context.Context, _ string) ([]string, error) {
	if f.enumerr != nil {
		return nil, f.enumerr
	}
	return f.urls, nil
}

type fakeObjectStore struct {
	available    bool
	failKeys     map[string]bool
	onUpload     func(localPath, key string)
	uploadedKeys []string
}

func (f *fakeObjectStore) Available(_ context.Context) bool {
	return f.available
}

func (f *fakeObjectStore) Upload(_ context.Context, localPath, key string, _ map[string]string) (*objstore.UploadResult, error) {
	if f.failKeys[key] {
		return nil, fmt.Errorf("upload rejected: %s", key)
	}
	if f.onUpload != nil {
		f.onUpload(localPath, key)
	}
	f.uploadedKeys = append(f.uploadedKeys, key)
	return &objstore.UploadResult{Key: key, RemoteURL: "http://store/bucket/" + key}, nil
}

func watchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

var _ = Describe("Pipeline", func() {
	var (
		src      *fakeSource
		objStore *fakeObjectStore
		sessions *pipeline.SessionManager
		sess     *pipeline.Session
		pipe     *pipeline.Pipeline
	)

	BeforeEach(func() {
		src = &fakeSource{
			infoErr:     map[string]error{},
			downloadErr: map[string]error{},
		}
		objStore = &fakeObjectStore{failKeys: map[string]bool{}}
		sessions = pipeline.NewSessionManager(GinkgoT().TempDir())

		var err error
		sess, err = sessions.Create("test_session")
		Expect(err).To(BeNil())

		pipe = pipeline.New(src, src, objStore)
	})

	Context("ProcessVideo", func() {
		It("keeps local files when the object store is unavailable", func() {
			result := pipe.ProcessVideo(context.TODO(), sess, watchURL("vid00000001"), "", true)

			Expect(result.Success).To(BeTrue())
			Expect(result.Uploaded).To(BeFalse())
			Expect(result.LocalFilesCleaned).To(BeFalse())
			Expect(result.LocalAudioPath).To(BeAnExistingFile())
			Expect(result.LocalMetadataPath).To(BeAnExistingFile())
		})

		It("uploads both files and cleans up local copies when the store accepts", func() {
			objStore.available = true

			result := pipe.ProcessVideo(context.TODO(), sess, watchURL("vid00000001"), "", true)

			Expect(result.Success).To(BeTrue())
			Expect(result.Uploaded).To(BeTrue())
			Expect(result.LocalFilesCleaned).To(BeTrue())
			Expect(result.LocalAudioPath).To(BeEmpty())
			Expect(result.LocalMetadataPath).To(BeEmpty())
			Expect(filepath.Join(sess.DownloadsDir, "vid00000001.flac")).NotTo(BeAnExistingFile())
			Expect(filepath.Join(sess.MetadataDir, "vid00000001_metadata.json")).NotTo(BeAnExistingFile())

			Expect(objStore.uploadedKeys).To(Equal([]string{
				"youtube_downloads/test_session/downloads/vid00000001.flac",
				"youtube_downloads/test_session/metadata/vid00000001_metadata.json",
			}))
		})

		It("does not upload the sidecar when the audio upload fails", func() {
			objStore.available = true
			objStore.failKeys["youtube_downloads/test_session/downloads/vid00000001.flac"] = true

			result := pipe.ProcessVideo(context.TODO(), sess, watchURL("vid00000001"), "", true)

			Expect(result.Success).To(BeTrue())
			Expect(result.Uploaded).To(BeFalse())
			Expect(result.LocalFilesCleaned).To(BeFalse())
			Expect(objStore.uploadedKeys).To(BeEmpty())
			Expect(result.LocalAudioPath).To(BeAnExistingFile())
		})

		It("keeps the video successful but not uploaded when the sidecar upload fails", func() {
			objStore.available = true
			objStore.failKeys["youtube_downloads/test_session/metadata/vid00000001_metadata.json"] = true

			result := pipe.ProcessVideo(context.TODO(), sess, watchURL("vid00000001"), "", true)

			Expect(result.Success).To(BeTrue())
			Expect(result.Uploaded).To(BeFalse())
			Expect(result.LocalAudioPath).To(BeAnExistingFile())
		})

		It("clears only the paths whose local files were actually removed", func() {
			objStore.available = true
			objStore.onUpload = func(localPath, key string) {
				// Swap the sidecar for a non-empty directory so its removal fails.
				if strings.HasSuffix(key, "_metadata.json") {
					Expect(os.Remove(localPath)).To(BeNil())
					Expect(os.MkdirAll(filepath.Join(localPath, "blocker"), 0755)).To(BeNil())
				}
			}

			result := pipe.ProcessVideo(context.TODO(), sess, watchURL("vid00000001"), "", true)

			Expect(result.Success).To(BeTrue())
			Expect(result.Uploaded).To(BeTrue())
			Expect(result.LocalFilesCleaned).To(BeFalse())
			Expect(result.LocalAudioPath).To(BeEmpty())
			Expect(result.LocalMetadataPath).NotTo(BeEmpty())
		})

		It("reports a failure result with the raw error when info resolution fails", func() {
			url := watchURL("vid00000001")
			src.infoErr[url] = fmt.Errorf("video unavailable")

			result := pipe.ProcessVideo(context.TODO(), sess, url, "", true)

			Expect(result.Success).To(BeFalse())
			Expect(result.Error).To(Equal("video unavailable"))
		})

		It("honors a custom file name", func() {
			result := pipe.ProcessVideo(context.TODO(), sess, watchURL("vid00000001"), "my_talk", false)

			Expect(result.Success).To(BeTrue())
			Expect(filepath.Base(result.LocalAudioPath)).To(Equal("my_talk.flac"))
		})
	})

	Context("ProcessChannel", func() {
		channelURL := "https://www.youtube.com/@somecreator"

		It("fails the run when enumeration fails", func() {
			src.enumerr = fmt.Errorf("channel not found")

			_, err := pipe.ProcessChannel(context.TODO(), sess, channelURL, 0, nil)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("channel scan failed"))
		})

		It("fails the run when the channel has no videos", func() {
			src.urls = []string{}

			_, err := pipe.ProcessChannel(context.TODO(), sess, channelURL, 0, nil)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("no videos found"))
		})

		It("partitions results preserving enumeration order and keeps counts consistent", func() {
			for i := 1; i <= 5; i++ {
				src.urls = append(src.urls, watchURL(fmt.Sprintf("vid%08d", i)))
			}
			src.downloadErr[src.urls[2]] = fmt.Errorf("network timeout")

			result, err := pipe.ProcessChannel(context.TODO(), sess, channelURL, 0, nil)
			Expect(err).To(BeNil())

			Expect(result.TotalVideosFound).To(Equal(5))
			Expect(result.DownloadedCount).To(Equal(4))
			Expect(result.FailedCount).To(Equal(1))
			Expect(result.DownloadedCount + result.FailedCount).To(Equal(result.TotalVideosFound))
			Expect(result.DownloadedVideos).To(HaveLen(4))
			Expect(result.FailedVideos).To(HaveLen(1))
			Expect(result.FailedVideos[0].URL).To(Equal(src.urls[2]))
			Expect(result.FailedVideos[0].Error).NotTo(BeEmpty())

			ids := make([]string, 0, 4)
			for _, video := range result.DownloadedVideos {
				ids = append(ids, video.VideoID)
			}
			Expect(ids).To(Equal([]string{"vid00000001", "vid00000002", "vid00000004", "vid00000005"}))
		})

		It("emits exactly one progress event per video with a strictly increasing index", func() {
			for i := 1; i <= 4; i++ {
				src.urls = append(src.urls, watchURL(fmt.Sprintf("vid%08d", i)))
			}
			src.downloadErr[src.urls[1]] = fmt.Errorf("boom")

			events := []pipeline.ProgressEvent{}
			sink := pipeline.ProgressSinkFunc(func(event pipeline.ProgressEvent) {
				events = append(events, event)
			})

			_, err := pipe.ProcessChannel(context.TODO(), sess, channelURL, 0, sink)
			Expect(err).To(BeNil())

			Expect(events).To(HaveLen(4))
			for i, event := range events {
				Expect(event.Completed).To(Equal(i + 1))
				Expect(event.Total).To(Equal(4))
			}
			Expect(events[1].Success).To(BeFalse())
			Expect(events[0].Success).To(BeTrue())
		})

		It("truncates to the cap preserving enumeration order", func() {
			for i := 1; i <= 10; i++ {
				src.urls = append(src.urls, watchURL(fmt.Sprintf("vid%08d", i)))
			}

			result, err := pipe.ProcessChannel(context.TODO(), sess, channelURL, 3, nil)
			Expect(err).To(BeNil())

			Expect(result.TotalVideosFound).To(Equal(3))
			Expect(result.DownloadedCount).To(Equal(3))
			Expect(result.DownloadedVideos[0].URL).To(Equal(src.urls[0]))
			Expect(result.DownloadedVideos[2].URL).To(Equal(src.urls[2]))
		})

		It("persists the channel summary and the url list under the session", func() {
			src.urls = []string{watchURL("vid00000001"), watchURL("vid00000002")}
			src.downloadErr[src.urls[1]] = fmt.Errorf("gone")

			result, err := pipe.ProcessChannel(context.TODO(), sess, channelURL, 0, nil)
			Expect(err).To(BeNil())

			Expect(result.SummaryFile).To(BeAnExistingFile())
			Expect(result.VideoListFile).To(BeAnExistingFile())

			listData, err := os.ReadFile(result.VideoListFile)
			Expect(err).To(BeNil())
			content := string(listData)
			Expect(content).To(ContainSubstring("Channel: " + channelURL))
			Expect(content).To(ContainSubstring("=== DOWNLOADED VIDEOS ==="))
			Expect(content).To(ContainSubstring("=== FAILED VIDEOS ==="))
			Expect(content).To(ContainSubstring(src.urls[1] + " | Error: gone"))
		})
	})

	Context("Process", func() {
		It("normalizes a single-video run with channel-like counts", func() {
			objStore.available = true

			result, err := pipe.Process(context.TODO(), sess, watchURL("vid00000001"), "", 0, nil)
			Expect(err).To(BeNil())

			Expect(result.Type).To(Equal("video"))
			Expect(result.Success).To(BeTrue())
			Expect(result.TotalVideos).To(Equal(1))
			Expect(result.DownloadedCount).To(Equal(1))
			Expect(result.FailedCount).To(Equal(0))
			Expect(result.UploadedCount).To(Equal(1))
			Expect(result.RemoteAvailable).To(BeTrue())
			Expect(result.SessionName).To(Equal("test_session"))
		})

		It("returns an error for a failed single video", func() {
			url := watchURL("vid00000001")
			src.downloadErr[url] = fmt.Errorf("download failed")

			_, err := pipe.Process(context.TODO(), sess, url, "", 0, nil)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("download failed"))
		})

		It("treats a channel run with partial failures as a success", func() {
			src.urls = []string{watchURL("vid00000001"), watchURL("vid00000002")}
			src.downloadErr[src.urls[0]] = fmt.Errorf("gone")

			result, err := pipe.Process(context.TODO(), sess, "https://www.youtube.com/@somecreator", "", 0, nil)
			Expect(err).To(BeNil())

			Expect(result.Type).To(Equal("channel"))
			Expect(result.Success).To(BeTrue())
			Expect(result.DownloadedCount).To(Equal(1))
			Expect(result.FailedCount).To(Equal(1))
		})

		It("writes the session results document", func() {
			_, err := pipe.Process(context.TODO(), sess, watchURL("vid00000001"), "", 0, nil)
			Expect(err).To(BeNil())

			data, err := os.ReadFile(filepath.Join(sess.Dir, "download_results.json"))
			Expect(err).To(BeNil())
			Expect(strings.Contains(string(data), "\"session_name\": \"test_session\"")).To(BeTrue())
		})
	})
})
