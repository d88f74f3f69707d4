package torrent

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
	"time"

	"bdecode/bencode"
	"bdecode/utils"

	"github.com/pkg/errors"
)

// PieceHashSize is the length of one SHA-1 piece hash in the pieces string.
const PieceHashSize = 20

type Torrent struct {
	AnnounceList []string
	Name         string
	UrlList      []string
	CreatedBy    string
	Comment      string
	CreatedAt    int64
	FileList     []*File
	PieceLength  int64
	Pieces       []string
	InfoHash     [20]byte
	Length       int64
	IsPrivate    bool
}

func NewTorrent() *Torrent {
	return &Torrent{
		AnnounceList: make([]string, 0),
		UrlList:      make([]string, 0),
		FileList:     make([]*File, 0),
		Pieces:       make([]string, 0),
	}
}

func (t *Torrent) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  Name: %s\n", t.Name))
	sb.WriteString(fmt.Sprintf("  InfoHash: %s\n", t.InfoHashString()))
	sb.WriteString(fmt.Sprintf("  Length: %s\n", utils.FormatBytes(t.Length)))

	sb.WriteString("  AnnounceList:\n")
	for _, announce := range t.AnnounceList {
		sb.WriteString(fmt.Sprintf("     %s\n", announce))
	}

	sb.WriteString("  UrlList:\n")
	for _, url := range t.UrlList {
		sb.WriteString(fmt.Sprintf("     %s\n", url))
	}
	sb.WriteString(fmt.Sprintf("  CreatedBy: %s\n", t.CreatedBy))
	sb.WriteString(fmt.Sprintf("  Comment: %s\n", t.Comment))
	if t.CreatedAt != 0 {
		sb.WriteString(fmt.Sprintf("  CreatedAt: %s\n", time.Unix(t.CreatedAt, 0).UTC().String()))
	}
	sb.WriteString(fmt.Sprintf("  Private: %t\n", t.IsPrivate))
	sb.WriteString("  FileList:\n")
	for _, file := range t.FileList {
		sb.WriteString(fmt.Sprintf("     %s\n", file.String()))
	}
	sb.WriteString(fmt.Sprintf("  PieceLength: %s\n", utils.FormatBytes(t.PieceLength)))
	sb.WriteString(fmt.Sprintf("  Pieces: %d\n", len(t.Pieces)))

	return sb.String()
}

func (t *Torrent) InfoHashString() string {
	return hex.EncodeToString(t.InfoHash[:])
}

type File struct {
	Length          int64
	Path            string
	FirstPieceIndex int
	LastPieceIndex  int
}

func NewFile(length int64, path string) *File {
	return &File{
		Length: length,
		Path:   path,
	}
}

func (f *File) String() string {
	return fmt.Sprintf("Path: %s(%s) pieces %d-%d", f.Path, utils.FormatBytes(f.Length), f.FirstPieceIndex, f.LastPieceIndex)
}

func lookup(dict *bencode.Dict, key string, want bencode.DataType) (*bencode.Data, bool, error) {
	v, ok := dict.Get(key)
	if !ok {
		return nil, false, nil
	}
	if v.Type != want {
		return nil, false, errors.Errorf("field %q has the wrong type", key)
	}
	return v, true, nil
}

func lookupInt(dict *bencode.Dict, key string) (int64, bool, error) {
	v, ok, err := lookup(dict, key, bencode.INTEGER)
	if err != nil || !ok {
		return 0, ok, err
	}
	n, err := v.Int64()
	if err != nil {
		return 0, false, errors.Wrapf(err, "field %q", key)
	}
	return n, true, nil
}

func lookupString(dict *bencode.Dict, key string) (string, bool, error) {
	v, ok, err := lookup(dict, key, bencode.STRING)
	if err != nil || !ok {
		return "", ok, err
	}
	return v.AsString(), true, nil
}

func stringList(list []*bencode.Data, field string) ([]string, error) {
	out := make([]string, 0, len(list))
	for _, elem := range list {
		if elem.Type != bencode.STRING {
			return nil, errors.Errorf("field %q holds a non-string element", field)
		}
		out = append(out, elem.AsString())
	}
	return out, nil
}

// TorrentFromBencodeData converts decoded metainfo into a Torrent.
// It extracts the announce lists, file information, piece hashes and the
// other top-level properties. Without the original bytes the info hash is
// computed over the canonical encoding of the info dictionary; use
// TorrentFromBytes to hash the info dictionary exactly as it was written.
func TorrentFromBencodeData(data *bencode.Data) (*Torrent, error) {
	return fromBencodeData(data, nil)
}

func fromBencodeData(data *bencode.Data, rawInfo []byte) (*Torrent, error) {
	if data == nil || data.Type != bencode.DICT {
		return nil, errors.New("metainfo is not a dictionary")
	}
	torrent := NewTorrent()
	rootDict := data.AsDict()
	info, ok, err := lookup(rootDict, "info", bencode.DICT)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("metainfo has no info dictionary")
	}
	infoDict := info.AsDict()

	// announce-list
	if announceList, ok, err := lookup(rootDict, "announce-list", bencode.LIST); err != nil {
		return nil, err
	} else if ok {
		for _, tier := range announceList.AsList() {
			if tier.Type != bencode.LIST {
				return nil, errors.New(`field "announce-list" holds a non-list tier`)
			}
			announces, err := stringList(tier.AsList(), "announce-list")
			if err != nil {
				return nil, err
			}
			torrent.AnnounceList = append(torrent.AnnounceList, announces...)
		}
	}

	// announce
	if announce, ok, err := lookupString(rootDict, "announce"); err != nil {
		return nil, err
	} else if ok && !slices.Contains(torrent.AnnounceList, announce) {
		torrent.AnnounceList = append(torrent.AnnounceList, announce)
	}

	// name
	if torrent.Name, _, err = lookupString(infoDict, "name"); err != nil {
		return nil, err
	}

	// url-list, either a single url or a list of them
	if urlList, ok := rootDict.Get("url-list"); ok {
		switch urlList.Type {
		case bencode.STRING:
			torrent.UrlList = append(torrent.UrlList, urlList.AsString())
		case bencode.LIST:
			urls, err := stringList(urlList.AsList(), "url-list")
			if err != nil {
				return nil, err
			}
			torrent.UrlList = append(torrent.UrlList, urls...)
		default:
			return nil, errors.New(`field "url-list" has the wrong type`)
		}
	}

	if torrent.Comment, _, err = lookupString(rootDict, "comment"); err != nil {
		return nil, err
	}
	if torrent.CreatedBy, _, err = lookupString(rootDict, "created by"); err != nil {
		return nil, err
	}
	if torrent.CreatedAt, _, err = lookupInt(rootDict, "creation date"); err != nil {
		return nil, err
	}

	// files list
	if files, ok, err := lookup(infoDict, "files", bencode.LIST); err != nil {
		return nil, err
	} else if ok {
		for i, fileData := range files.AsList() {
			if fileData.Type != bencode.DICT {
				return nil, errors.Errorf("file %d is not a dictionary", i)
			}
			fileDict := fileData.AsDict()
			length, ok, err := lookupInt(fileDict, "length")
			if err != nil {
				return nil, errors.Wrapf(err, "file %d", i)
			}
			if !ok {
				return nil, errors.Errorf("file %d has no length", i)
			}
			file := NewFile(length, "")

			if filePath, ok, err := lookup(fileDict, "path", bencode.LIST); err != nil {
				return nil, errors.Wrapf(err, "file %d", i)
			} else if ok {
				parts, err := stringList(filePath.AsList(), "path")
				if err != nil {
					return nil, errors.Wrapf(err, "file %d", i)
				}
				file.Path = strings.Join(parts, "/")
			}

			torrent.FileList = append(torrent.FileList, file)
			torrent.Length += file.Length
		}
	} else {
		// single file mode
		length, ok, err := lookupInt(infoDict, "length")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.New("info dictionary has neither files nor length")
		}
		torrent.Length = length
		torrent.FileList = append(torrent.FileList, NewFile(torrent.Length, torrent.Name))
	}

	if torrent.PieceLength, _, err = lookupInt(infoDict, "piece length"); err != nil {
		return nil, err
	}

	// pieces
	if pieces, ok, err := lookup(infoDict, "pieces", bencode.STRING); err != nil {
		return nil, err
	} else if ok {
		piecesData := pieces.AsBytes()
		if len(piecesData)%PieceHashSize != 0 {
			return nil, errors.Errorf("pieces length %d is not a multiple of %d", len(piecesData), PieceHashSize)
		}
		for i := 0; i < len(piecesData); i += PieceHashSize {
			torrent.Pieces = append(torrent.Pieces, hex.EncodeToString(piecesData[i:i+PieceHashSize]))
		}
	}

	// is private
	private, _, err := lookupInt(infoDict, "private")
	if err != nil {
		return nil, err
	}
	torrent.IsPrivate = private == 1

	if rawInfo == nil {
		rawInfo, err = info.ToBytes()
		if err != nil {
			return nil, errors.Wrap(err, "encoding info dictionary")
		}
	}
	torrent.InfoHash = sha1.Sum(rawInfo)

	// put piece indices in the files
	if torrent.PieceLength > 0 {
		pieceIndex := 0
		for _, file := range torrent.FileList {
			pieceCount := file.Length / torrent.PieceLength
			if file.Length%torrent.PieceLength != 0 {
				pieceCount++
			}
			file.FirstPieceIndex = pieceIndex
			file.LastPieceIndex = pieceIndex + int(pieceCount) - 1
			pieceIndex += int(pieceCount)
		}
	}

	return torrent, nil
}

// TorrentFromBytes decodes a .torrent file's content and converts it to a
// Torrent.
func TorrentFromBytes(content []byte, opts ...bencode.Option) (*Torrent, error) {
	dec := bencode.NewDecoder(opts...)
	bencodeData, err := dec.Decode(content)
	if err != nil {
		return nil, errors.Wrap(err, "error decoding torrent file")
	}
	// the info hash covers the info dictionary as written, not a re-encoding
	var rawInfo []byte
	if bencodeData.Type == bencode.DICT {
		rawInfo, _, err = dec.RawDictValue(content, "info")
		if err != nil {
			return nil, errors.Wrap(err, "locating info dictionary")
		}
	}
	return fromBencodeData(bencodeData, rawInfo)
}
